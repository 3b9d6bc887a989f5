package handlers

import (
	"log"

	redis_models "Wordspy/models/redis"
	"Wordspy/services/engine"
	"Wordspy/services/game"
	"Wordspy/services/rooms"
	socketio_types "Wordspy/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleSubmitClue applies one clue submission for the player whose turn
// it is. Submitting the secret word itself ends the round immediately.
func HandleSubmitClue(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := payloadOf(args)
		if !ok {
			emitError(client, game.InvalidInput("clue text is required"))
			return
		}
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		session, outcome, err := eng.SubmitClue(roomID, username, stringField(payload, "clue"))
		if err != nil {
			log.Printf("[CLUE-ERROR] %s in %s: %v", username, roomID, err)
			emitError(client, err)
			return
		}

		if outcome.GuessedWord {
			// Round over on the spot: the word was said out loud.
			log.Printf("[CLUE-GUESS] %s guessed the word in room %s", username, roomID)
			sio.ToRoom(roomID, "game.wordGuessed", gin.H{
				"user_id":  username,
				"username": username,
			})
			broadcastPhase(sio, roomID, redis_models.PhaseResults)
			broadcastSessionState(sio, session)
			return
		}

		sio.ToRoom(roomID, "game.clueSubmitted", gin.H{
			"player_id":   outcome.Clue.PlayerID,
			"player_name": outcome.Clue.PlayerName,
			"clue":        outcome.Clue.Text,
		})
		if outcome.AllSubmitted {
			broadcastPhase(sio, roomID, redis_models.PhaseVoting)
		}
		broadcastSessionState(sio, session)
	}
}
