package handlers

import (
	"log"
	"time"

	redis_models "Wordspy/models/redis"
	"Wordspy/services/engine"
	"Wordspy/services/game"
	"Wordspy/services/rooms"
	socketio_types "Wordspy/services/socket_io/types"
	roomsync "Wordspy/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleCreateRoom creates a room with the caller as host and joins their
// socket to the corresponding socket.io room.
func HandleCreateRoom(registry *rooms.Registry, client *socket.Socket, username string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := payloadOf(args)
		if !ok {
			emitError(client, game.InvalidInput("room settings are required"))
			return
		}

		settings := rooms.Settings{
			Name:         stringField(payload, "name"),
			MinPlayers:   intField(payload, "min_players"),
			MaxPlayers:   intField(payload, "max_players"),
			NumImpostors: intField(payload, "num_impostors"),
			IsPrivate:    payload["is_private"] == true,
		}

		room, err := registry.CreateRoom(username, username, string(client.Id()), settings)
		if err != nil {
			log.Printf("[ROOM-CREATE-ERROR] %s: %v", username, err)
			emitError(client, err)
			return
		}

		client.Join(socket.Room(room.ID))
		client.Emit("room.state", roomState(room))
	}
}

// HandleJoinRoom joins the caller to a room, or refreshes their connection
// token when they are already a member (the reconnection path). The typed
// code may be an unambiguous id prefix.
func HandleJoinRoom(registry *rooms.Registry, eng *engine.Engine, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := payloadOf(args)
		if !ok {
			emitError(client, game.InvalidInput("room id is required"))
			return
		}
		code := stringField(payload, "room_id")

		roomID, err := resolveRoomID(registry, code)
		if err != nil {
			log.Printf("[JOIN-ERROR] %s could not resolve code %q: %v", username, code, err)
			emitError(client, err)
			return
		}

		room, rejoined, err := registry.Join(roomID, username, username, string(client.Id()))
		if err != nil {
			log.Printf("[JOIN-ERROR] %s -> %s: %v", username, roomID, err)
			emitError(client, err)
			return
		}

		client.Join(socket.Room(room.ID))
		client.Emit("room.state", roomState(room))

		if rejoined {
			// Idempotent: a second reconnect only refreshes the token again.
			log.Printf("[RECONNECT] %s rejoined room %s", username, room.ID)
			if eng.HasSession(room.ID) {
				if view, verr := eng.StateFor(room.ID, username); verr == nil {
					client.Emit("game.state", view)
				}
			}
			return
		}

		sio.ToRoom(room.ID, "room.playerJoined", gin.H{
			"user_id":  username,
			"username": username,
		})
		sio.ToRoom(room.ID, "room.state", roomState(room))
	}
}

// HandleLeaveRoom removes the caller from their room, migrating the host
// role or deleting the room as needed.
func HandleLeaveRoom(registry *rooms.Registry, locks *roomsync.Manager, client *socket.Socket,
	username string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		current, err := registry.FindByPlayer(username)
		if err != nil {
			emitError(client, game.NotFound("you are not in a room"))
			return
		}

		room, result, err := registry.Leave(current.ID, username)
		if err != nil {
			emitError(client, err)
			return
		}

		client.Leave(socket.Room(current.ID))
		sio.ToRoom(current.ID, "room.playerLeft", gin.H{
			"user_id":  username,
			"username": username,
		})

		if result.RoomDeleted {
			locks.Release(current.ID)
			log.Printf("[ROOM-LEAVE] %s left, room %s deleted", username, current.ID)
			return
		}
		if result.HostChanged {
			sio.ToRoom(current.ID, "room.hostChanged", gin.H{"host_id": result.NewHostID})
		}
		sio.ToRoom(current.ID, "room.state", roomState(room))
	}
}

// HandleListRooms replies with the public waiting rooms that still have a
// free slot.
func HandleListRooms(registry *rooms.Registry, client *socket.Socket,
	username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		waiting, err := registry.ListWaiting()
		if err != nil {
			emitError(client, err)
			return
		}
		list := make([]gin.H, 0, len(waiting))
		for _, room := range waiting {
			list = append(list, gin.H{
				"room_id":      room.ID,
				"name":         room.Name,
				"player_count": len(room.Players),
				"max_players":  room.MaxPlayers,
			})
		}
		client.Emit("room.list", gin.H{"rooms": list})
	}
}

// HandleKickFromRoom removes a member on the host's behalf.
func HandleKickFromRoom(registry *rooms.Registry, client *socket.Socket, username string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := payloadOf(args)
		if !ok {
			emitError(client, game.InvalidInput("target user id is required"))
			return
		}
		targetID := stringField(payload, "user_id")

		current, err := registry.FindByPlayer(username)
		if err != nil {
			emitError(client, game.NotFound("you are not in a room"))
			return
		}

		room, result, err := registry.Kick(current.ID, username, targetID)
		if err != nil {
			log.Printf("[KICK-ERROR] %s -> %s in %s: %v", username, targetID, current.ID, err)
			emitError(client, err)
			return
		}

		if kicked, ok := sio.GetConnection(targetID); ok {
			kicked.Leave(socket.Room(current.ID))
			kicked.Emit("room.playerLeft", gin.H{"user_id": targetID, "kicked": true})
		}
		sio.ToRoom(current.ID, "room.playerLeft", gin.H{
			"user_id": targetID,
			"kicked":  true,
		})
		if result.HostChanged {
			sio.ToRoom(current.ID, "room.hostChanged", gin.H{"host_id": result.NewHostID})
		}
		sio.ToRoom(current.ID, "room.state", roomState(room))
		log.Printf("[KICK] %s kicked %s from room %s", username, targetID, current.ID)
	}
}

// HandleRoomMessage relays a sanitized chat line to the caller's room.
func HandleRoomMessage(registry *rooms.Registry, client *socket.Socket, username string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := payloadOf(args)
		if !ok {
			emitError(client, game.InvalidInput("message is required"))
			return
		}
		text := game.SanitizeClue(stringField(payload, "message"))
		if text == "" {
			emitError(client, game.InvalidInput("message cannot be empty"))
			return
		}

		room, err := registry.FindByPlayer(username)
		if err != nil {
			emitError(client, game.NotFound("you must join a room before sending messages"))
			return
		}

		sio.ToRoom(room.ID, "room.message", redis_models.ChatMessage{
			Message:   text,
			Username:  username,
			Timestamp: time.Now(),
		})
	}
}
