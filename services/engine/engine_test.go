package engine

import (
	"math/rand"
	"sync"
	"testing"

	models "Wordspy/models/postgres"
	redis_models "Wordspy/models/redis"
	"Wordspy/services/game"
	"Wordspy/services/rooms"
	"Wordspy/services/sessions"
	roomsync "Wordspy/services/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	engine   *Engine
	registry *rooms.Registry
	roomID   string
}

// newTestEnv builds a registry-backed engine with a four player room ready
// to start. "ana" is the host.
func newTestEnv(t *testing.T, seed int64) *testEnv {
	t.Helper()
	locks := roomsync.NewManager()
	registry := rooms.NewRegistry(rooms.NewMemoryStore(), locks)
	store := sessions.NewStore(nil)
	words := game.NewDictionaryWithWords([]string{"ocean"}, rand.New(rand.NewSource(seed)))
	eng := New(registry, store, locks, words, rand.NewSource(seed))

	room, err := registry.CreateRoom("ana", "Ana", "t1", rooms.Settings{
		Name: "test room", MinPlayers: 4, MaxPlayers: 6, NumImpostors: 1,
	})
	require.NoError(t, err)
	for _, u := range []string{"ben", "cleo", "dan"} {
		_, _, err = registry.Join(room.ID, u, u, "t-"+u)
		require.NoError(t, err)
	}
	return &testEnv{engine: eng, registry: registry, roomID: room.ID}
}

// advancePastRoles starts the game and moves it into the CLUES phase.
func (env *testEnv) advancePastRoles(t *testing.T) *redis_models.GameSession {
	t.Helper()
	_, err := env.engine.StartGame(env.roomID, "ana")
	require.NoError(t, err)
	session, err := env.engine.AdvanceToClues(env.roomID, "ana")
	require.NoError(t, err)
	return session
}

func TestStartGameRequiresHost(t *testing.T) {
	env := newTestEnv(t, 1)

	_, err := env.engine.StartGame(env.roomID, "ben")
	assert.Equal(t, game.KindForbidden, game.AsError(err).Kind)
}

func TestStartGameSetsUpSession(t *testing.T) {
	env := newTestEnv(t, 1)

	session, err := env.engine.StartGame(env.roomID, "ana")
	require.NoError(t, err)
	assert.Equal(t, redis_models.PhaseRoles, session.Phase)
	assert.Equal(t, "ocean", session.SecretWord)
	assert.Len(t, session.Players, 4)

	room, err := env.registry.Find(env.roomID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusInProgress, room.Status)

	// Starting twice is rejected.
	_, err = env.engine.StartGame(env.roomID, "ana")
	assert.Equal(t, game.KindConflict, game.AsError(err).Kind)
}

func TestStartGameRejectsSmallRoom(t *testing.T) {
	locks := roomsync.NewManager()
	registry := rooms.NewRegistry(rooms.NewMemoryStore(), locks)
	eng := New(registry, sessions.NewStore(nil), locks,
		game.NewDictionaryWithWords([]string{"ocean"}, rand.New(rand.NewSource(1))), rand.NewSource(1))

	room, err := registry.CreateRoom("ana", "Ana", "t1", rooms.Settings{
		MinPlayers: 3, MaxPlayers: 6, NumImpostors: 1,
	})
	require.NoError(t, err)

	_, err = eng.StartGame(room.ID, "ana")
	assert.Equal(t, game.KindInvalidInput, game.AsError(err).Kind)
}

func TestConfirmRoleFlowAdvances(t *testing.T) {
	env := newTestEnv(t, 1)
	_, err := env.engine.StartGame(env.roomID, "ana")
	require.NoError(t, err)

	var advanced bool
	for _, u := range []string{"ana", "ben", "cleo", "dan"} {
		_, advanced, err = env.engine.ConfirmRole(env.roomID, u)
		require.NoError(t, err)
	}
	assert.True(t, advanced)

	view, err := env.engine.StateFor(env.roomID, "ana")
	require.NoError(t, err)
	assert.Equal(t, redis_models.PhaseClues, view.Phase)
}

func TestFullRoundThroughEngine(t *testing.T) {
	env := newTestEnv(t, 1)
	session := env.advancePastRoles(t)

	// Everyone submits in turn order.
	clues := []string{"wave", "salt", "blue", "deep"}
	for i, p := range session.Players {
		session, _, err := env.engine.SubmitClue(env.roomID, p.UserID, clues[i])
		require.NoError(t, err)
		if i == len(clues)-1 {
			assert.Equal(t, redis_models.PhaseVoting, session.Phase)
		}
	}

	// Everyone votes for the first player.
	target := session.Players[0].UserID
	var outcome *game.VoteOutcome
	for _, p := range session.Players {
		voteTarget := target
		if p.UserID == target {
			voteTarget = session.Players[1].UserID
		}
		var err error
		session, outcome, err = env.engine.SubmitVote(env.roomID, p.UserID, voteTarget)
		require.NoError(t, err)
	}

	require.True(t, outcome.AllVoted)
	require.NotNil(t, outcome.Eliminated)
	assert.Equal(t, target, outcome.Eliminated.UserID)
	assert.Contains(t, []string{redis_models.PhaseResults, redis_models.PhaseVictory}, session.Phase)

	if session.Phase == redis_models.PhaseResults {
		session, err := env.engine.ContinueNextRound(env.roomID, "ana")
		require.NoError(t, err)
		assert.Equal(t, redis_models.PhaseClues, session.Phase)
		assert.Equal(t, 2, session.Round)
	}
}

func TestEndGameRecordsSummary(t *testing.T) {
	env := newTestEnv(t, 1)
	env.advancePastRoles(t)

	summary, err := env.engine.EndGame(env.roomID, "ana")
	require.NoError(t, err)
	assert.Equal(t, "ocean", summary.SecretWord)
	assert.Len(t, summary.Impostors, 1)

	room, err := env.registry.Find(env.roomID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusFinished, room.Status)
	assert.NotEmpty(t, room.LastGameSummary)
	assert.False(t, env.engine.HasSession(env.roomID))
}

func TestEndGameRequiresHost(t *testing.T) {
	env := newTestEnv(t, 1)
	env.advancePastRoles(t)

	_, err := env.engine.EndGame(env.roomID, "ben")
	assert.Equal(t, game.KindForbidden, game.AsError(err).Kind)
	assert.True(t, env.engine.HasSession(env.roomID))
}

func TestStateForHidesSecretFromImpostor(t *testing.T) {
	env := newTestEnv(t, 1)
	session := env.advancePastRoles(t)

	var impostorID, citizenID string
	for _, p := range session.Players {
		if p.IsImpostor {
			impostorID = p.UserID
		} else {
			citizenID = p.UserID
		}
	}

	impostorView, err := env.engine.StateFor(env.roomID, impostorID)
	require.NoError(t, err)
	assert.Empty(t, impostorView.SecretWord)

	citizenView, err := env.engine.StateFor(env.roomID, citizenID)
	require.NoError(t, err)
	assert.Equal(t, "ocean", citizenView.SecretWord)
}

func TestConcurrentClueSubmissionsStaySerialized(t *testing.T) {
	env := newTestEnv(t, 1)
	session := env.advancePastRoles(t)
	first := session.Players[0].UserID

	// Ten duplicated submissions race; exactly one may win.
	var wg sync.WaitGroup
	successes := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := env.engine.SubmitClue(env.roomID, first, "wave"); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, 1, count)

	view, err := env.engine.StateFor(env.roomID, first)
	require.NoError(t, err)
	require.Len(t, view.Clues, 1)
	assert.Equal(t, "wave", view.Clues[0].Text)
}

func TestRejectedActionLeavesNoPartialState(t *testing.T) {
	env := newTestEnv(t, 1)
	session := env.advancePastRoles(t)
	second := session.Players[1].UserID

	// Out of turn: rejected before any write.
	_, _, err := env.engine.SubmitClue(env.roomID, second, "wave")
	require.Equal(t, game.KindForbidden, game.AsError(err).Kind)

	view, err := env.engine.StateFor(env.roomID, second)
	require.NoError(t, err)
	assert.Empty(t, view.Clues)
	assert.Equal(t, redis_models.PhaseClues, view.Phase)
}
