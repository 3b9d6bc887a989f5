package handlers

import (
	"log"

	"Wordspy/services/engine"
	"Wordspy/services/game"
	"Wordspy/services/rooms"
	socketio_types "Wordspy/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleSubmitVote records one vote; the closing vote triggers the tally
// and either an elimination or a tie break.
func HandleSubmitVote(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := payloadOf(args)
		if !ok {
			emitError(client, game.InvalidInput("vote target is required"))
			return
		}
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		session, outcome, err := eng.SubmitVote(roomID, username, stringField(payload, "target_id"))
		if err != nil {
			log.Printf("[VOTE-ERROR] %s in %s: %v", username, roomID, err)
			emitError(client, err)
			return
		}

		// Who voted is public, who they voted for is not.
		sio.ToRoom(roomID, "game.voteSubmitted", gin.H{
			"voter_id":    username,
			"votes_cast":  len(session.Votes),
			"votes_total": len(session.ActivePlayers()),
		})

		if outcome.AllVoted {
			announceVoteResult(sio, roomID, session, outcome)
		}
	}
}

// HandleResolveTie lets the host break a voting tie; one of the tied
// players is eliminated uniformly at random.
func HandleResolveTie(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		session, outcome, err := eng.ResolveTie(roomID, username)
		if err != nil {
			log.Printf("[TIE-ERROR] %s in %s: %v", username, roomID, err)
			emitError(client, err)
			return
		}

		announceVoteResult(sio, roomID, session, outcome)
	}
}
