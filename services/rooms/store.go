package rooms

import (
	"errors"

	models "Wordspy/models/postgres"
)

// ErrRoomNotFound is returned by stores when no room matches.
var ErrRoomNotFound = errors.New("room not found")

// Store is the room document persistence boundary. Two implementations
// exist, a gorm/PostgreSQL one and an in-memory one for tests and
// single-node deployments; the backend is selected by configuration.
type Store interface {
	// Create persists a new room, generating its id if empty.
	Create(room *models.Room) error
	// Find returns the room with the given id, players included.
	Find(id string) (*models.Room, error)
	// FindByPlayer returns the room that currently contains the user.
	FindByPlayer(userID string) (*models.Room, error)
	// ListWaiting returns public rooms in waiting status with a free slot.
	ListWaiting() ([]*models.Room, error)
	// ListIDs returns every stored room id (used for prefix lookup).
	ListIDs() ([]string, error)
	// Update replaces the room row and its player list atomically.
	Update(room *models.Room) error
	// Delete removes the room and its players.
	Delete(id string) error
}
