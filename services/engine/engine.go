package engine

import (
	"encoding/json"
	"log"
	"math/rand"
	stdsync "sync"

	models "Wordspy/models/postgres"
	redis_models "Wordspy/models/redis"
	"Wordspy/services/game"
	"Wordspy/services/rooms"
	"Wordspy/services/sessions"
	roomsync "Wordspy/services/sync"
)

// Engine drives game sessions: every mutating operation takes the room's
// lock, loads the session, applies one validated state-machine transition
// and saves, so concurrent submissions for one room never interleave.
type Engine struct {
	registry *rooms.Registry
	store    *sessions.Store
	locks    *roomsync.Manager
	words    game.WordProvider
	rng      *rand.Rand
}

// New wires an engine. The rand source feeds impostor assignment and tie
// breaking; it is wrapped in a locked source, so a shared seeded source is
// fine in tests.
func New(registry *rooms.Registry, store *sessions.Store, locks *roomsync.Manager, words game.WordProvider, src rand.Source) *Engine {
	return &Engine{
		registry: registry,
		store:    store,
		locks:    locks,
		words:    words,
		rng:      rand.New(&lockedSource{src: src}),
	}
}

// GameSummary is persisted on the room row when the host ends the game.
type GameSummary struct {
	Winner     string   `json:"winner,omitempty"`
	Impostors  []string `json:"impostors"`
	Rounds     int      `json:"rounds"`
	SecretWord string   `json:"secret_word"`
}

// StartGame creates the session for a waiting room. Only the host may
// start, and the roster must pass the player/impostor count rules.
func (e *Engine) StartGame(roomID, userID string) (session *redis_models.GameSession, err error) {
	err = e.locks.WithRoomLock(roomID, func() error {
		room, rerr := e.registry.Find(roomID)
		if rerr != nil {
			return rerr
		}
		if room.HostID != userID {
			return game.Forbidden("only the host can start the game")
		}
		if room.Status != models.RoomStatusWaiting || e.store.Exists(roomID) {
			return game.Conflict("a game is already running in this room")
		}

		roster := make([]redis_models.GamePlayer, 0, len(room.Players))
		for _, p := range room.Players {
			roster = append(roster, redis_models.GamePlayer{UserID: p.UserID, Username: p.Username})
		}

		session, rerr = game.StartSession(roomID, roster, room.NumImpostors, e.words.RandomWord(), e.rng)
		if rerr != nil {
			return rerr
		}
		if serr := e.store.Save(session); serr != nil {
			return serr
		}
		return e.registry.SetStatusLocked(roomID, models.RoomStatusInProgress)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[GAME-START] Room %s started round 1 with %d players", roomID, len(session.Players))
	return session, nil
}

// ConfirmRole records a role acknowledgment; once all active players have
// confirmed, the session advances to CLUES on its own.
func (e *Engine) ConfirmRole(roomID, userID string) (session *redis_models.GameSession, advanced bool, err error) {
	err = e.mutate(roomID, func(g *redis_models.GameSession) error {
		advanced, err = game.ConfirmRole(g, userID)
		session = g
		return err
	})
	return session, advanced, err
}

// AdvanceToClues is the host-triggered ROLES -> CLUES transition.
func (e *Engine) AdvanceToClues(roomID, userID string) (session *redis_models.GameSession, err error) {
	err = e.mutateAsHost(roomID, userID, func(g *redis_models.GameSession) error {
		session = g
		return game.AdvanceToClues(g)
	})
	return session, err
}

// SubmitClue sanitizes and applies one clue submission.
func (e *Engine) SubmitClue(roomID, userID, rawText string) (session *redis_models.GameSession, outcome *game.ClueOutcome, err error) {
	text := game.SanitizeClue(rawText)
	err = e.mutate(roomID, func(g *redis_models.GameSession) error {
		outcome, err = game.SubmitClue(g, userID, text)
		session = g
		return err
	})
	return session, outcome, err
}

// SubmitVote applies one vote; the closing vote tallies the phase.
func (e *Engine) SubmitVote(roomID, voterID, targetID string) (session *redis_models.GameSession, outcome *game.VoteOutcome, err error) {
	err = e.mutate(roomID, func(g *redis_models.GameSession) error {
		outcome, err = game.SubmitVote(g, voterID, targetID)
		session = g
		return err
	})
	return session, outcome, err
}

// ResolveTie lets the host break a voting tie by random elimination.
func (e *Engine) ResolveTie(roomID, userID string) (session *redis_models.GameSession, outcome *game.VoteOutcome, err error) {
	err = e.mutateAsHost(roomID, userID, func(g *redis_models.GameSession) error {
		outcome, err = game.ResolveTieBreak(g, e.rng)
		session = g
		return err
	})
	return session, outcome, err
}

// ContinueNextRound starts the next round with a fresh secret word.
func (e *Engine) ContinueNextRound(roomID, userID string) (session *redis_models.GameSession, err error) {
	err = e.mutateAsHost(roomID, userID, func(g *redis_models.GameSession) error {
		session = g
		return game.NextRound(g, e.words.RandomWord())
	})
	return session, err
}

// EndGame deletes the session, marks the room finished and records the
// final summary on the room row.
func (e *Engine) EndGame(roomID, userID string) (summary *GameSummary, err error) {
	err = e.locks.WithRoomLock(roomID, func() error {
		room, rerr := e.registry.Find(roomID)
		if rerr != nil {
			return rerr
		}
		if room.HostID != userID {
			return game.Forbidden("only the host can end the game")
		}
		g, lerr := e.loadSession(roomID)
		if lerr != nil {
			return lerr
		}

		summary = &GameSummary{Winner: g.Winner, Rounds: g.Round, SecretWord: g.SecretWord}
		for _, p := range g.Players {
			if p.IsImpostor {
				summary.Impostors = append(summary.Impostors, p.Username)
			}
		}
		data, merr := json.Marshal(summary)
		if merr != nil {
			return merr
		}
		if derr := e.store.Delete(roomID); derr != nil {
			return derr
		}
		return e.registry.RecordSummaryLocked(roomID, data)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[GAME-END] Room %s finished, winner=%s", roomID, summary.Winner)
	return summary, nil
}

// StateFor returns the caller's sanitized view of the room's session.
func (e *Engine) StateFor(roomID, userID string) (view game.SessionView, err error) {
	err = e.locks.WithRoomLock(roomID, func() error {
		g, lerr := e.loadSession(roomID)
		if lerr != nil {
			return lerr
		}
		view = game.ViewFor(g, userID)
		return nil
	})
	return view, err
}

// HasSession reports whether a game is currently stored for the room.
func (e *Engine) HasSession(roomID string) bool {
	return e.store.Exists(roomID)
}

// mutate runs one load-mutate-save cycle under the room lock. When fn
// returns an error nothing is saved, so rejected actions never leave a
// partial write behind.
func (e *Engine) mutate(roomID string, fn func(*redis_models.GameSession) error) error {
	return e.locks.WithRoomLock(roomID, func() error {
		g, err := e.loadSession(roomID)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		return e.store.Save(g)
	})
}

// mutateAsHost is mutate with a host authority check in front.
func (e *Engine) mutateAsHost(roomID, userID string, fn func(*redis_models.GameSession) error) error {
	return e.locks.WithRoomLock(roomID, func() error {
		room, err := e.registry.Find(roomID)
		if err != nil {
			return err
		}
		if room.HostID != userID {
			return game.Forbidden("only the host can do that")
		}
		g, err := e.loadSession(roomID)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		return e.store.Save(g)
	})
}

func (e *Engine) loadSession(roomID string) (*redis_models.GameSession, error) {
	g, err := e.store.Load(roomID)
	if err != nil {
		if err == sessions.ErrSessionNotFound {
			return nil, game.NotFound("no game is running in room %s", roomID)
		}
		return nil, err
	}
	return g, nil
}

// NewLockedSource wraps a rand.Source so it can be shared between the
// engine and the word dictionary.
func NewLockedSource(src rand.Source) rand.Source {
	return &lockedSource{src: src}
}

// lockedSource makes a rand.Source safe for concurrent rooms.
type lockedSource struct {
	mu  stdsync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}
