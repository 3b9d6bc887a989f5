package rooms

import (
	"testing"

	"Wordspy/services/game"
	roomsync "Wordspy/services/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(NewMemoryStore(), roomsync.NewManager())
}

func defaultSettings() Settings {
	return Settings{Name: "word night", MinPlayers: 4, MaxPlayers: 6, NumImpostors: 1}
}

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, defaultSettings().Validate())

	s := defaultSettings()
	s.MinPlayers = 2
	assert.Error(t, s.Validate())

	s = defaultSettings()
	s.MaxPlayers = 3
	assert.Error(t, s.Validate())

	s = defaultSettings()
	s.MaxPlayers = 13
	assert.Error(t, s.Validate())

	s = defaultSettings()
	s.NumImpostors = 4
	assert.Error(t, s.Validate())

	s = defaultSettings()
	s.NumImpostors = 0
	assert.Error(t, s.Validate())
}

func TestCreateRoomMakesHostSoleMember(t *testing.T) {
	reg := newTestRegistry()

	room, err := reg.CreateRoom("ana", "Ana", "tok-1", defaultSettings())
	require.NoError(t, err)

	assert.Len(t, room.ID, 6)
	assert.Equal(t, "ana", room.HostID)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.True(t, room.Players[0].Connected())
	assert.Equal(t, room.ID, room.Players[0].RoomID)
}

func TestCreateRoomRejectsSecondRoom(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.CreateRoom("ana", "Ana", "tok-1", defaultSettings())
	require.NoError(t, err)

	_, err = reg.CreateRoom("ana", "Ana", "tok-2", defaultSettings())
	assert.Equal(t, game.KindConflict, game.AsError(err).Kind)
}

func TestJoinAddsMember(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("ana", "Ana", "tok-1", defaultSettings())
	require.NoError(t, err)

	joined, rejoined, err := reg.Join(room.ID, "ben", "Ben", "tok-2")
	require.NoError(t, err)
	assert.False(t, rejoined)
	assert.Len(t, joined.Players, 2)
}

func TestJoinIsIdempotentForMembers(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("ana", "Ana", "tok-1", defaultSettings())
	require.NoError(t, err)
	_, _, err = reg.Join(room.ID, "ben", "Ben", "tok-2")
	require.NoError(t, err)

	// A reconnect joins again with a fresh token.
	joined, rejoined, err := reg.Join(room.ID, "ben", "Ben", "tok-3")
	require.NoError(t, err)
	assert.True(t, rejoined)
	assert.Len(t, joined.Players, 2)

	for _, p := range joined.Players {
		if p.UserID == "ben" {
			require.NotNil(t, p.ConnectionToken)
			assert.Equal(t, "tok-3", *p.ConnectionToken)
		}
	}

	// And again: still no duplicate entry.
	joined, rejoined, err = reg.Join(room.ID, "ben", "Ben", "tok-4")
	require.NoError(t, err)
	assert.True(t, rejoined)
	assert.Len(t, joined.Players, 2)
}

func TestJoinFullRoomRejected(t *testing.T) {
	reg := newTestRegistry()
	settings := defaultSettings()
	settings.MaxPlayers = 4
	room, err := reg.CreateRoom("ana", "Ana", "t1", settings)
	require.NoError(t, err)

	for _, u := range []string{"ben", "cleo", "dan"} {
		_, _, err = reg.Join(room.ID, u, u, "t-"+u)
		require.NoError(t, err)
	}

	_, _, err = reg.Join(room.ID, "eve", "Eve", "t-eve")
	assert.Equal(t, game.KindConflict, game.AsError(err).Kind)
}

func TestJoinUnknownRoom(t *testing.T) {
	reg := newTestRegistry()

	_, _, err := reg.Join("zzzzzz", "ben", "Ben", "tok")
	assert.Equal(t, game.KindNotFound, game.AsError(err).Kind)
}

func TestLeaveMigratesHost(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("ana", "Ana", "t1", defaultSettings())
	require.NoError(t, err)
	_, _, err = reg.Join(room.ID, "ben", "Ben", "t2")
	require.NoError(t, err)
	_, _, err = reg.Join(room.ID, "cleo", "Cleo", "t3")
	require.NoError(t, err)

	updated, result, err := reg.Leave(room.ID, "ana")
	require.NoError(t, err)
	assert.True(t, result.HostChanged)
	assert.Equal(t, "ben", result.NewHostID)
	assert.Equal(t, "ben", updated.HostID)

	// Exactly one member carries the host flag.
	hosts := 0
	for _, p := range updated.Players {
		if p.IsHost {
			hosts++
			assert.Equal(t, updated.HostID, p.UserID)
		}
	}
	assert.Equal(t, 1, hosts)
}

func TestLeaveLastPlayerDeletesRoom(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("ana", "Ana", "t1", defaultSettings())
	require.NoError(t, err)

	_, result, err := reg.Leave(room.ID, "ana")
	require.NoError(t, err)
	assert.True(t, result.RoomDeleted)

	_, err = reg.Find(room.ID)
	assert.Equal(t, game.KindNotFound, game.AsError(err).Kind)
}

func TestKickRequiresHost(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("ana", "Ana", "t1", defaultSettings())
	require.NoError(t, err)
	_, _, err = reg.Join(room.ID, "ben", "Ben", "t2")
	require.NoError(t, err)

	_, _, err = reg.Kick(room.ID, "ben", "ana")
	assert.Equal(t, game.KindForbidden, game.AsError(err).Kind)

	_, _, err = reg.Kick(room.ID, "ana", "ana")
	assert.Equal(t, game.KindInvalidInput, game.AsError(err).Kind)

	updated, result, err := reg.Kick(room.ID, "ana", "ben")
	require.NoError(t, err)
	assert.False(t, result.HostChanged)
	assert.Len(t, updated.Players, 1)
}

func TestMarkDisconnectedKeepsSeatAndMigratesHost(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("ana", "Ana", "t1", defaultSettings())
	require.NoError(t, err)
	_, _, err = reg.Join(room.ID, "ben", "Ben", "t2")
	require.NoError(t, err)

	updated, hostChanged, newHostID, err := reg.MarkDisconnected(room.ID, "ana")
	require.NoError(t, err)
	assert.True(t, hostChanged)
	assert.Equal(t, "ben", newHostID)
	assert.Equal(t, "ben", updated.HostID)
	assert.Len(t, updated.Players, 2)

	for _, p := range updated.Players {
		if p.UserID == "ana" {
			assert.False(t, p.Connected())
			assert.False(t, p.IsHost)
		}
	}
}

func TestMarkDisconnectedKeepsHostWhenNobodyElseConnected(t *testing.T) {
	reg := newTestRegistry()
	room, err := reg.CreateRoom("ana", "Ana", "t1", defaultSettings())
	require.NoError(t, err)
	_, _, err = reg.Join(room.ID, "ben", "Ben", "t2")
	require.NoError(t, err)
	_, _, _, err = reg.MarkDisconnected(room.ID, "ben")
	require.NoError(t, err)

	// Nobody else is connected, so ana keeps the host seat.
	updated, hostChanged, _, err := reg.MarkDisconnected(room.ID, "ana")
	require.NoError(t, err)
	assert.False(t, hostChanged)
	assert.Equal(t, "ana", updated.HostID)
}

func TestFindByCodePrefix(t *testing.T) {
	store := NewMemoryStore()
	reg := NewRegistry(store, roomsync.NewManager())

	room, err := reg.CreateRoom("ana", "Ana", "t1", defaultSettings())
	require.NoError(t, err)

	found, err := reg.FindByCodePrefix(room.ID[:4])
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)

	// Case-insensitive and hyphen-tolerant.
	code := room.ID[:3] + "-" + room.ID[3:]
	found, err = reg.FindByCodePrefix(code)
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)

	_, err = reg.FindByCodePrefix("zz")
	assert.Equal(t, game.KindNotFound, game.AsError(err).Kind)

	_, err = reg.FindByCodePrefix("")
	assert.Equal(t, game.KindNotFound, game.AsError(err).Kind)
}

func TestListWaitingSkipsPrivateAndFullRooms(t *testing.T) {
	reg := newTestRegistry()

	pub, err := reg.CreateRoom("ana", "Ana", "t1", defaultSettings())
	require.NoError(t, err)

	private := defaultSettings()
	private.IsPrivate = true
	_, err = reg.CreateRoom("ben", "Ben", "t2", private)
	require.NoError(t, err)

	waiting, err := reg.ListWaiting()
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, pub.ID, waiting[0].ID)
}
