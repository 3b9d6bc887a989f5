package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Wordspy/services/rooms"
	roomsync "Wordspy/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomRouter(t *testing.T) (*gin.Engine, *rooms.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := rooms.NewRegistry(rooms.NewMemoryStore(), roomsync.NewManager())
	router := gin.New()
	router.GET("/rooms", ListJoinableRooms(registry))
	router.GET("/rooms/:room_id", GetRoomInfo(registry))
	return router, registry
}

func TestListJoinableRooms(t *testing.T) {
	router, registry := newRoomRouter(t)

	_, err := registry.CreateRoom("ana", "Ana", "t1", rooms.Settings{
		Name: "word night", MinPlayers: 4, MaxPlayers: 6, NumImpostors: 1,
	})
	require.NoError(t, err)

	private := rooms.Settings{Name: "secret", MinPlayers: 4, MaxPlayers: 6, NumImpostors: 1, IsPrivate: true}
	_, err = registry.CreateRoom("ben", "Ben", "t2", private)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/rooms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "word night", list[0]["name"])
	assert.Equal(t, float64(1), list[0]["player_count"])
}

func TestGetRoomInfo(t *testing.T) {
	router, registry := newRoomRouter(t)

	room, err := registry.CreateRoom("ana", "Ana", "t1", rooms.Settings{
		Name: "word night", MinPlayers: 4, MaxPlayers: 6, NumImpostors: 1,
	})
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/rooms/"+room.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, room.ID, response["room_id"])
	assert.Equal(t, "ana", response["host_id"])
	assert.Equal(t, "waiting", response["status"])

	players, ok := response["players"].([]interface{})
	require.True(t, ok)
	assert.Len(t, players, 1)
}

func TestGetRoomInfoNotFound(t *testing.T) {
	router, _ := newRoomRouter(t)

	req, _ := http.NewRequest("GET", "/rooms/zzzzzz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
