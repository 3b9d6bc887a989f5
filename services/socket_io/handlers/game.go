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

// currentRoomID resolves the room the caller is acting in. Game actions
// take no room argument; a player acts in the room they are a member of.
func currentRoomID(registry *rooms.Registry, client *socket.Socket, username string) (string, bool) {
	room, err := registry.FindByPlayer(username)
	if err != nil {
		emitError(client, game.NotFound("you are not in a room"))
		return "", false
	}
	return room.ID, true
}

// HandleStartGame assigns roles and opens the ROLES phase. Host only.
func HandleStartGame(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		session, err := eng.StartGame(roomID, username)
		if err != nil {
			log.Printf("[GAME-START-ERROR] %s in %s: %v", username, roomID, err)
			emitError(client, err)
			return
		}

		broadcastPhase(sio, roomID, session.Phase)
		broadcastSessionState(sio, session)
	}
}

// HandleConfirmRole records a role acknowledgment; the last one advances
// the session to CLUES on its own.
func HandleConfirmRole(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		session, advanced, err := eng.ConfirmRole(roomID, username)
		if err != nil {
			emitError(client, err)
			return
		}
		if advanced {
			broadcastPhase(sio, roomID, session.Phase)
			broadcastSessionState(sio, session)
		}
	}
}

// HandleAdvanceToClues is the host-triggered ROLES -> CLUES transition.
func HandleAdvanceToClues(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		session, err := eng.AdvanceToClues(roomID, username)
		if err != nil {
			log.Printf("[PHASE-ERROR] %s advancing %s: %v", username, roomID, err)
			emitError(client, err)
			return
		}

		broadcastPhase(sio, roomID, session.Phase)
		broadcastSessionState(sio, session)
	}
}

// HandleContinueNextRound starts the next round with a fresh word. Host only.
func HandleContinueNextRound(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		session, err := eng.ContinueNextRound(roomID, username)
		if err != nil {
			emitError(client, err)
			return
		}

		if session.Phase == redis_models.PhaseVictory {
			// The safety net fired: a winner was already determined.
			sio.ToRoom(roomID, "game.victory", gin.H{"winner": session.Winner})
		}
		broadcastPhase(sio, roomID, session.Phase)
		broadcastSessionState(sio, session)
	}
}

// HandleEndGame deletes the session and closes the room. Host only.
func HandleEndGame(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		summary, err := eng.EndGame(roomID, username)
		if err != nil {
			emitError(client, err)
			return
		}

		room, rerr := registry.Find(roomID)
		if rerr == nil {
			sio.ToRoom(roomID, "room.state", roomState(room))
		}
		sio.ToRoom(roomID, "game.ended", gin.H{
			"winner":      summary.Winner,
			"impostors":   summary.Impostors,
			"rounds":      summary.Rounds,
			"secret_word": summary.SecretWord,
		})
	}
}

// HandleGetState unicasts the caller's sanitized view of the running game.
func HandleGetState(eng *engine.Engine, registry *rooms.Registry, client *socket.Socket,
	username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		roomID, ok := currentRoomID(registry, client, username)
		if !ok {
			return
		}

		view, err := eng.StateFor(roomID, username)
		if err != nil {
			emitError(client, err)
			return
		}
		client.Emit("game.state", view)
	}
}
