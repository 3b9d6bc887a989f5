package rooms

import (
	"log"
	"strings"
	"time"

	models "Wordspy/models/postgres"
	"Wordspy/services/game"
	roomsync "Wordspy/services/sync"
)

// Settings are the host-chosen room parameters.
type Settings struct {
	Name         string `json:"name"`
	MinPlayers   int    `json:"min_players"`
	MaxPlayers   int    `json:"max_players"`
	NumImpostors int    `json:"num_impostors"`
	IsPrivate    bool   `json:"is_private"`
}

// Validate enforces the room setting bounds checked at creation time.
func (s Settings) Validate() error {
	if s.MinPlayers < 3 {
		return game.InvalidInput("min players must be at least 3")
	}
	if s.MaxPlayers < s.MinPlayers {
		return game.InvalidInput("max players must be at least min players")
	}
	if s.MaxPlayers > 12 {
		return game.InvalidInput("max players must be at most 12")
	}
	if s.NumImpostors < 1 || s.NumImpostors >= s.MinPlayers {
		return game.InvalidInput("impostor count must be between 1 and min players - 1")
	}
	return nil
}

// LeaveResult reports the side effects of a Leave or Kick.
type LeaveResult struct {
	RoomDeleted bool
	HostChanged bool
	NewHostID   string
}

// Registry owns room membership, host assignment and connection-liveness
// bookkeeping. Every mutation locks the room id so concurrent joins and
// leaves cannot interleave mid-update.
type Registry struct {
	store Store
	locks *roomsync.Manager
}

func NewRegistry(store Store, locks *roomsync.Manager) *Registry {
	return &Registry{store: store, locks: locks}
}

// Store exposes the underlying room store (REST controllers read through it).
func (r *Registry) Store() Store { return r.store }

// CreateRoom validates the settings and creates a room with the host as
// sole, connected player.
func (r *Registry) CreateRoom(hostID, hostName, token string, settings Settings) (*models.Room, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if existing, err := r.store.FindByPlayer(hostID); err == nil {
		return nil, game.Conflict("you are already in room %s", existing.ID)
	}

	name := strings.TrimSpace(settings.Name)
	if name == "" {
		name = hostName + "'s room"
	}
	room := &models.Room{
		Name:         name,
		HostID:       hostID,
		Status:       models.RoomStatusWaiting,
		MinPlayers:   settings.MinPlayers,
		MaxPlayers:   settings.MaxPlayers,
		NumImpostors: settings.NumImpostors,
		IsPrivate:    settings.IsPrivate,
		Players: []models.RoomPlayer{{
			UserID:          hostID,
			Username:        hostName,
			ConnectionToken: &token,
			IsHost:          true,
			JoinedAt:        time.Now(),
		}},
	}
	if err := r.store.Create(room); err != nil {
		return nil, err
	}
	// The store fills the id during Create; the player rows need it too.
	for i := range room.Players {
		room.Players[i].RoomID = room.ID
	}
	if err := r.store.Update(room); err != nil {
		return nil, err
	}
	log.Printf("[ROOM-CREATE] Room %s created by %s", room.ID, hostName)
	return room, nil
}

// Join adds a user to a waiting room. If the user is already a member the
// call only refreshes their connection token; this is the primary
// reconnection path and is idempotent.
func (r *Registry) Join(roomID, userID, username, token string) (room *models.Room, rejoined bool, err error) {
	err = r.locks.WithRoomLock(roomID, func() error {
		room, err = r.store.Find(roomID)
		if err != nil {
			return game.NotFound("room %s does not exist", roomID)
		}

		for i := range room.Players {
			if room.Players[i].UserID == userID {
				room.Players[i].ConnectionToken = &token
				rejoined = true
				return r.store.Update(room)
			}
		}

		if room.Status != models.RoomStatusWaiting {
			return game.Conflict("the game in this room already started")
		}
		if len(room.Players) >= room.MaxPlayers {
			return game.Conflict("room %s is full", roomID)
		}
		if other, ferr := r.store.FindByPlayer(userID); ferr == nil && other.ID != roomID {
			return game.Conflict("you are already in room %s", other.ID)
		}

		room.Players = append(room.Players, models.RoomPlayer{
			RoomID:          roomID,
			UserID:          userID,
			Username:        username,
			ConnectionToken: &token,
			JoinedAt:        time.Now(),
		})
		return r.store.Update(room)
	})
	if err != nil {
		return nil, false, err
	}
	log.Printf("[ROOM-JOIN] %s joined room %s (rejoin=%v)", username, roomID, rejoined)
	return room, rejoined, nil
}

// Leave removes a player. An emptied room is deleted; a departing host
// hands the room to the next connected player, falling back to the first
// remaining one.
func (r *Registry) Leave(roomID, userID string) (room *models.Room, result *LeaveResult, err error) {
	err = r.locks.WithRoomLock(roomID, func() error {
		room, err = r.store.Find(roomID)
		if err != nil {
			return game.NotFound("room %s does not exist", roomID)
		}
		room, result, err = r.removeMember(room, userID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return room, result, nil
}

// Kick removes a member on the host's behalf. Same removal semantics as
// Leave; the host cannot kick themselves.
func (r *Registry) Kick(roomID, hostID, targetID string) (room *models.Room, result *LeaveResult, err error) {
	err = r.locks.WithRoomLock(roomID, func() error {
		room, err = r.store.Find(roomID)
		if err != nil {
			return game.NotFound("room %s does not exist", roomID)
		}
		if room.HostID != hostID {
			return game.Forbidden("only the host can kick players")
		}
		if targetID == hostID {
			return game.InvalidInput("the host cannot kick themselves")
		}
		room, result, err = r.removeMember(room, targetID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return room, result, nil
}

// removeMember holds the shared removal logic. Caller holds the room lock.
func (r *Registry) removeMember(room *models.Room, userID string) (*models.Room, *LeaveResult, error) {
	idx := -1
	for i := range room.Players {
		if room.Players[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, game.NotFound("player is not in room %s", room.ID)
	}

	wasHost := room.Players[idx].IsHost
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	result := &LeaveResult{}

	if len(room.Players) == 0 {
		if err := r.store.Delete(room.ID); err != nil {
			return nil, nil, err
		}
		result.RoomDeleted = true
		log.Printf("[ROOM-DELETE] Room %s deleted, last player left", room.ID)
		return nil, result, nil
	}

	if wasHost {
		newHost := promoteHost(room)
		result.HostChanged = true
		result.NewHostID = newHost
		log.Printf("[HOST-CHANGE] Room %s host migrated to %s", room.ID, newHost)
	}
	if err := r.store.Update(room); err != nil {
		return nil, nil, err
	}
	return room, result, nil
}

// MarkDisconnected clears the player's connection token but keeps their
// seat. A disconnecting host triggers the same promotion rule as Leave.
func (r *Registry) MarkDisconnected(roomID, userID string) (room *models.Room, hostChanged bool, newHostID string, err error) {
	err = r.locks.WithRoomLock(roomID, func() error {
		room, err = r.store.Find(roomID)
		if err != nil {
			return game.NotFound("room %s does not exist", roomID)
		}
		found := false
		for i := range room.Players {
			if room.Players[i].UserID == userID {
				room.Players[i].ConnectionToken = nil
				found = true
				break
			}
		}
		if !found {
			return game.NotFound("player is not in room %s", roomID)
		}
		if room.HostID == userID {
			newHostID = promoteHost(room)
			hostChanged = newHostID != userID
		}
		return r.store.Update(room)
	})
	if err != nil {
		return nil, false, "", err
	}
	log.Printf("[ROOM-DISCONNECT] %s marked disconnected in room %s (hostChanged=%v)", userID, roomID, hostChanged)
	return room, hostChanged, newHostID, nil
}

// promoteHost picks the next connected player, or the first remaining one,
// and rewrites the isHost flags together with HostID.
func promoteHost(room *models.Room) string {
	newHostIdx := 0
	for i := range room.Players {
		if room.Players[i].Connected() && room.Players[i].UserID != room.HostID {
			newHostIdx = i
			break
		}
	}
	for i := range room.Players {
		room.Players[i].IsHost = i == newHostIdx
	}
	room.HostID = room.Players[newHostIdx].UserID
	return room.HostID
}

// Find returns a room by exact id.
func (r *Registry) Find(roomID string) (*models.Room, error) {
	room, err := r.store.Find(roomID)
	if err != nil {
		return nil, game.NotFound("room %s does not exist", roomID)
	}
	return room, nil
}

// FindByPlayer returns the room currently containing the user, if any.
func (r *Registry) FindByPlayer(userID string) (*models.Room, error) {
	return r.store.FindByPlayer(userID)
}

// ListWaiting returns joinable public rooms.
func (r *Registry) ListWaiting() ([]*models.Room, error) {
	return r.store.ListWaiting()
}

// FindByCodePrefix matches a room id by case-insensitive, hyphen-stripped
// prefix. Zero or ambiguous matches are both treated as not found; the
// registry never guesses.
func (r *Registry) FindByCodePrefix(prefix string) (*models.Room, error) {
	normalized := strings.ToLower(strings.ReplaceAll(prefix, "-", ""))
	if normalized == "" {
		return nil, game.NotFound("empty room code")
	}
	ids, err := r.store.ListIDs()
	if err != nil {
		return nil, err
	}
	var match string
	for _, id := range ids {
		candidate := strings.ToLower(strings.ReplaceAll(id, "-", ""))
		if strings.HasPrefix(candidate, normalized) {
			if match != "" {
				return nil, game.NotFound("room code %q is ambiguous", prefix)
			}
			match = id
		}
	}
	if match == "" {
		return nil, game.NotFound("no room matches code %q", prefix)
	}
	return r.Find(match)
}

// SetStatusLocked updates the room lifecycle status. The caller must
// already hold the room's lock; the game engine calls this inside its own
// load-mutate-save section.
func (r *Registry) SetStatusLocked(roomID, status string) error {
	room, err := r.store.Find(roomID)
	if err != nil {
		return game.NotFound("room %s does not exist", roomID)
	}
	room.Status = status
	return r.store.Update(room)
}

// RecordSummaryLocked stores the final game summary on the room row and
// marks the room finished. Caller holds the room lock.
func (r *Registry) RecordSummaryLocked(roomID string, summary []byte) error {
	room, err := r.store.Find(roomID)
	if err != nil {
		return game.NotFound("room %s does not exist", roomID)
	}
	room.Status = models.RoomStatusFinished
	room.LastGameSummary = summary
	return r.store.Update(room)
}
