package handlers

import (
	"log"

	"Wordspy/services/rooms"
	socketio_types "Wordspy/services/socket_io/types"

	"github.com/gin-gonic/gin"
)

// HandleDisconnecting marks the user as disconnected in their room. The
// seat is kept (reconnection is expected); only the connection token is
// cleared, and the host role migrates if the host dropped.
func HandleDisconnecting(registry *rooms.Registry, username string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] User %s disconnecting", username)

		current, err := registry.FindByPlayer(username)
		if err == nil {
			room, hostChanged, newHostID, derr := registry.MarkDisconnected(current.ID, username)
			if derr != nil {
				log.Printf("[DISCONNECT-ERROR] marking %s in room %s: %v", username, current.ID, derr)
			} else {
				sio.ToRoom(current.ID, "room.playerLeft", gin.H{
					"user_id": username,
					"reason":  "disconnected",
				})
				if hostChanged {
					sio.ToRoom(current.ID, "room.hostChanged", gin.H{"host_id": newHostID})
				}
				sio.ToRoom(current.ID, "room.state", roomState(room))
			}
		}

		sio.RemoveConnection(username)
		log.Printf("[DISCONNECT-DONE] User disconnected: %s", username)
	}
}
