package rooms

import (
	"math/rand"
	"sync"
	"time"

	models "Wordspy/models/postgres"
)

// MemoryStore keeps rooms in a plain map under a RWMutex. Used by tests and
// by deployments that run without PostgreSQL.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*models.Room)}
}

const memoryIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func (s *MemoryStore) Create(room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room.ID == "" {
		for {
			b := make([]byte, 6)
			for i := range b {
				b[i] = memoryIDCharset[rand.Intn(len(memoryIDCharset))]
			}
			if _, taken := s.rooms[string(b)]; !taken {
				room.ID = string(b)
				break
			}
		}
	}
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	s.rooms[room.ID] = copyRoom(room)
	return nil
}

func (s *MemoryStore) Find(id string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (s *MemoryStore) FindByPlayer(userID string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		for _, p := range room.Players {
			if p.UserID == userID {
				return copyRoom(room), nil
			}
		}
	}
	return nil, ErrRoomNotFound
}

func (s *MemoryStore) ListWaiting() ([]*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var waiting []*models.Room
	for _, room := range s.rooms {
		if room.Status == models.RoomStatusWaiting && !room.IsPrivate && len(room.Players) < room.MaxPlayers {
			waiting = append(waiting, copyRoom(room))
		}
	}
	return waiting, nil
}

func (s *MemoryStore) ListIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Update(room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return ErrRoomNotFound
	}
	room.UpdatedAt = time.Now()
	s.rooms[room.ID] = copyRoom(room)
	return nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

// copyRoom deep-copies a room so callers never alias the stored value.
func copyRoom(room *models.Room) *models.Room {
	clone := *room
	clone.Players = make([]models.RoomPlayer, len(room.Players))
	copy(clone.Players, room.Players)
	for i := range clone.Players {
		if t := room.Players[i].ConnectionToken; t != nil {
			token := *t
			clone.Players[i].ConnectionToken = &token
		}
	}
	return &clone
}
