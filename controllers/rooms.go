package controllers

import (
	"Wordspy/services/rooms"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Lists joinable rooms
// @Description Returns the public rooms that are still waiting for players and have a free slot
// @Tags rooms
// @Produce json
// @Success 200 {array} object{room_id=string,name=string,player_count=integer,max_players=integer}
// @Failure 500 {object} object{error=string}
// @Router /rooms [get]
func ListJoinableRooms(registry *rooms.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		waiting, err := registry.ListWaiting()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list rooms"})
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
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Gives info of a room
// @Description Given a room id, it will return its settings and member list
// @Tags rooms
// @Produce json
// @Param room_id path string true "Id of the room wanted"
// @Success 200 {object} object{room_id=string,name=string,host_id=string,status=string}
// @Failure 404 {object} object{error=string}
// @Router /rooms/{room_id} [get]
func GetRoomInfo(registry *rooms.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("room_id")

		room, err := registry.Find(roomID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		players := make([]gin.H, 0, len(room.Players))
		for _, p := range room.Players {
			players = append(players, gin.H{
				"user_id":   p.UserID,
				"username":  p.Username,
				"is_host":   p.IsHost,
				"connected": p.Connected(),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"room_id":       room.ID,
			"name":          room.Name,
			"host_id":       room.HostID,
			"status":        room.Status,
			"min_players":   room.MinPlayers,
			"max_players":   room.MaxPlayers,
			"num_impostors": room.NumImpostors,
			"is_private":    room.IsPrivate,
			"created_at":    room.CreatedAt,
			"players":       players,
		})
	}
}
