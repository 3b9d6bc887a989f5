package handlers

import (
	"testing"

	redis_models "Wordspy/models/redis"
	"Wordspy/services/game"
	"Wordspy/services/rooms"
	roomsync "Wordspy/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBroadcaster captures the events the announce helpers emit.
type sentEvent struct {
	target  string
	event   string
	payload interface{}
}

type recordingBroadcaster struct {
	roomEvents []sentEvent
	userEvents []sentEvent
}

func (r *recordingBroadcaster) ToRoom(roomID string, event string, payload interface{}) {
	r.roomEvents = append(r.roomEvents, sentEvent{roomID, event, payload})
}

func (r *recordingBroadcaster) ToUser(username string, event string, payload interface{}) {
	r.userEvents = append(r.userEvents, sentEvent{username, event, payload})
}

func (r *recordingBroadcaster) roomEvent(t *testing.T, event string) gin.H {
	t.Helper()
	for _, e := range r.roomEvents {
		if e.event == event {
			return e.payload.(gin.H)
		}
	}
	t.Fatalf("no %s event broadcast to the room", event)
	return nil
}

func fivePlayerResultsSession() *redis_models.GameSession {
	return &redis_models.GameSession{
		RoomID:     "abc123",
		SecretWord: "ocean",
		Players: []redis_models.GamePlayer{
			{UserID: "p1", Username: "Ana"},
			{UserID: "p2", Username: "Ben", IsImpostor: true, IsEliminated: true},
			{UserID: "p3", Username: "Cleo"},
			{UserID: "p4", Username: "Dan"},
			{UserID: "p5", Username: "Eve", IsImpostor: true},
		},
		Round: 1,
		Phase: redis_models.PhaseResults,
	}
}

func TestPayloadHelpers(t *testing.T) {
	payload, ok := payloadOf([]interface{}{map[string]interface{}{
		"name":        "word night",
		"max_players": float64(6),
		"small":       3,
	}})
	require.True(t, ok)

	assert.Equal(t, "word night", stringField(payload, "name"))
	assert.Equal(t, "", stringField(payload, "missing"))
	// socket.io delivers JSON numbers as float64.
	assert.Equal(t, 6, intField(payload, "max_players"))
	assert.Equal(t, 3, intField(payload, "small"))
	assert.Equal(t, 0, intField(payload, "missing"))

	_, ok = payloadOf(nil)
	assert.False(t, ok)
	_, ok = payloadOf([]interface{}{"not a map"})
	assert.False(t, ok)
}

func TestResolveRoomID(t *testing.T) {
	reg := rooms.NewRegistry(rooms.NewMemoryStore(), roomsync.NewManager())
	room, err := reg.CreateRoom("ana", "Ana", "t1", rooms.Settings{
		Name: "word night", MinPlayers: 4, MaxPlayers: 6, NumImpostors: 1,
	})
	require.NoError(t, err)

	// Exact id wins immediately.
	id, err := resolveRoomID(reg, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, id)

	// An unambiguous prefix resolves too.
	id, err = resolveRoomID(reg, room.ID[:4])
	require.NoError(t, err)
	assert.Equal(t, room.ID, id)

	_, err = resolveRoomID(reg, "nope99")
	assert.Equal(t, game.KindNotFound, game.AsError(err).Kind)
}

func TestVotingResultsHideRoleWhileGameContinues(t *testing.T) {
	g := fivePlayerResultsSession()
	outcome := &game.VoteOutcome{
		AllVoted:   true,
		Tally:      game.TallyResult{Counts: map[string]int{"p2": 3, "p4": 2}, MostVotedID: "p2"},
		Eliminated: &g.Players[1],
	}

	sio := &recordingBroadcaster{}
	announceVoteResult(sio, g.RoomID, g, outcome)

	eliminated := sio.roomEvent(t, "game.votingResults")["eliminated_player"].(gin.H)
	assert.Equal(t, "p2", eliminated["user_id"])
	// An impostor fell but one is still in play: the card stays face down.
	assert.NotContains(t, eliminated, "is_impostor")
}

func TestVotingResultsRevealRoleOnVictory(t *testing.T) {
	g := fivePlayerResultsSession()
	g.Players[4].IsEliminated = true
	g.Phase = redis_models.PhaseVictory
	g.Winner = redis_models.WinnerCitizens
	outcome := &game.VoteOutcome{
		AllVoted:   true,
		Tally:      game.TallyResult{Counts: map[string]int{"p5": 4}, MostVotedID: "p5"},
		Eliminated: &g.Players[4],
		Winner:     redis_models.WinnerCitizens,
	}

	sio := &recordingBroadcaster{}
	announceVoteResult(sio, g.RoomID, g, outcome)

	eliminated := sio.roomEvent(t, "game.votingResults")["eliminated_player"].(gin.H)
	assert.Equal(t, true, eliminated["is_impostor"])
	victory := sio.roomEvent(t, "game.victory")
	assert.Equal(t, redis_models.WinnerCitizens, victory["winner"])
}

func TestTieAnnouncementRefreshesEveryPlayerView(t *testing.T) {
	g := fivePlayerResultsSession()
	g.Phase = redis_models.PhaseTieBreaker
	g.TiedPlayers = []string{"p1", "p4"}
	g.Votes = map[string]string{"p1": "p4", "p3": "p1", "p4": "p1", "p5": "p4"}
	outcome := &game.VoteOutcome{
		AllVoted: true,
		Tally:    game.TallyResult{IsTie: true, Tied: []string{"p1", "p4"}, Counts: map[string]int{"p1": 2, "p4": 2}},
	}

	sio := &recordingBroadcaster{}
	announceVoteResult(sio, g.RoomID, g, outcome)

	tie := sio.roomEvent(t, "game.tie")
	assert.Equal(t, []string{"p1", "p4"}, tie["tied_players"])
	phase := sio.roomEvent(t, "game.phaseChanged")
	assert.Equal(t, redis_models.PhaseTieBreaker, phase["phase"])

	// Every player gets a fresh personal view alongside the tie event.
	viewed := make(map[string]bool)
	for _, e := range sio.userEvents {
		if e.event == "game.state" {
			viewed[e.target] = true
		}
	}
	for _, p := range g.Players {
		assert.True(t, viewed[p.UserID], "missing game.state for %s", p.UserID)
	}
}
