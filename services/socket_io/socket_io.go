package socket_io

import (
	"Wordspy/services/engine"
	"Wordspy/services/rooms"
	"Wordspy/services/socket_io/handlers"
	roomsync "Wordspy/services/sync"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	socketio_types "Wordspy/services/socket_io/types"
	socketio_utils "Wordspy/services/socket_io/utils"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB, registry *rooms.Registry,
	eng *engine.Engine, locks *roomsync.Manager) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: initialize the map, it panics otherwise
	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, username, _ := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(username, client)

		fmt.Println("An individual just connected!: ", username)

		// If the player already belongs to a room this is a reconnect:
		// refresh their connection token, re-join the socket.io room and
		// replay the current state so the client can resume mid-game.
		if room, err := registry.FindByPlayer(username); err == nil {
			if refreshed, _, jerr := registry.Join(room.ID, username, username, string(client.Id())); jerr == nil {
				client.Join(socket.Room(refreshed.ID))
				client.Emit("room.state", handlers.RoomStatePayload(refreshed))
				if eng.HasSession(refreshed.ID) {
					if view, verr := eng.StateFor(refreshed.ID, username); verr == nil {
						client.Emit("game.state", view)
					}
				}
			}
		}

		// Room lifecycle
		client.On("room.create", handlers.HandleCreateRoom(registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("room.join", handlers.HandleJoinRoom(registry, eng, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("room.leave", handlers.HandleLeaveRoom(registry, locks, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("room.list", handlers.HandleListRooms(registry, client, username))
		client.On("room.kick", handlers.HandleKickFromRoom(registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("room.message", handlers.HandleRoomMessage(registry, client, username, (*socketio_types.SocketServer)(sio)))

		// Game lifecycle
		client.On("game.start", handlers.HandleStartGame(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.confirmRole", handlers.HandleConfirmRole(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.advanceToClues", handlers.HandleAdvanceToClues(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.submitClue", handlers.HandleSubmitClue(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.submitVote", handlers.HandleSubmitVote(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.resolveTie", handlers.HandleResolveTie(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.continueNextRound", handlers.HandleContinueNextRound(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.endGame", handlers.HandleEndGame(eng, registry, client, username, (*socketio_types.SocketServer)(sio)))
		client.On("game.getState", handlers.HandleGetState(eng, registry, client, username))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(registry, username, (*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
