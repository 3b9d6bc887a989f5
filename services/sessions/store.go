package sessions

import (
	"errors"
	"log"
	"sync"

	redis_models "Wordspy/models/redis"
	redis_service "Wordspy/services/redis"
)

// ErrSessionNotFound is returned when no session exists for a room.
var ErrSessionNotFound = errors.New("game session not found")

// Store persists game sessions. Redis is the source of truth; an in-memory
// map is written alongside every mutation and serves reads whenever the
// durable read fails, so a Redis outage never stalls a running game. The
// fallback never overrides a successful durable read.
type Store struct {
	rdb      *redis_service.RedisClient // nil when running without Redis
	mu       sync.RWMutex
	fallback map[string]*redis_models.GameSession
}

// NewStore builds a session store. rdb may be nil, in which case the store
// runs purely in memory.
func NewStore(rdb *redis_service.RedisClient) *Store {
	return &Store{
		rdb:      rdb,
		fallback: make(map[string]*redis_models.GameSession),
	}
}

// Save writes the session to both backends. A Redis failure is logged and
// swallowed; the fallback copy keeps the game playable.
func (s *Store) Save(session *redis_models.GameSession) error {
	s.mu.Lock()
	s.fallback[session.RoomID] = copySession(session)
	s.mu.Unlock()

	if s.rdb != nil {
		if err := s.rdb.SaveGameSession(session); err != nil {
			log.Printf("[STORE-WARN] Redis save failed for room %s, serving from fallback: %v", session.RoomID, err)
		}
	}
	return nil
}

// Load retrieves the session for a room. Redis is consulted first; on a
// failed read the in-memory copy is authoritative.
func (s *Store) Load(roomID string) (*redis_models.GameSession, error) {
	if s.rdb != nil {
		session, err := s.rdb.GetGameSession(roomID)
		if err == nil {
			if session != nil {
				return session, nil
			}
			// Redis answered "absent". Only trust the fallback here if a
			// previous durable save failed, i.e. the fallback still holds it.
			s.mu.RLock()
			cached, ok := s.fallback[roomID]
			s.mu.RUnlock()
			if ok {
				log.Printf("[STORE-WARN] Room %s missing in Redis, serving fallback copy", roomID)
				return copySession(cached), nil
			}
			return nil, ErrSessionNotFound
		}
		log.Printf("[STORE-WARN] Redis read failed for room %s, using fallback: %v", roomID, err)
	}

	s.mu.RLock()
	cached, ok := s.fallback[roomID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(cached), nil
}

// Exists reports whether a session is stored for the room.
func (s *Store) Exists(roomID string) bool {
	_, err := s.Load(roomID)
	return err == nil
}

// Delete removes the session from both backends.
func (s *Store) Delete(roomID string) error {
	s.mu.Lock()
	delete(s.fallback, roomID)
	s.mu.Unlock()

	if s.rdb != nil {
		if err := s.rdb.DeleteGameSession(roomID); err != nil {
			log.Printf("[STORE-WARN] Redis delete failed for room %s: %v", roomID, err)
		}
	}
	return nil
}

// copySession deep-copies a session so the fallback map never aliases a
// session a caller is still mutating.
func copySession(g *redis_models.GameSession) *redis_models.GameSession {
	clone := *g
	clone.Players = append([]redis_models.GamePlayer(nil), g.Players...)
	clone.Clues = append([]redis_models.Clue(nil), g.Clues...)
	clone.TiedPlayers = append([]string(nil), g.TiedPlayers...)
	clone.Votes = make(map[string]string, len(g.Votes))
	for k, v := range g.Votes {
		clone.Votes[k] = v
	}
	clone.RoleAcks = make(map[string]bool, len(g.RoleAcks))
	for k, v := range g.RoleAcks {
		clone.RoleAcks[k] = v
	}
	return &clone
}
