package postgres

import (
	"math/rand"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room lifecycle states.
const (
	RoomStatusWaiting    = "waiting"
	RoomStatusInProgress = "in_progress"
	RoomStatusFinished   = "finished"
)

/*
 * 'Room' defines the structure of a Wordspy game room. A room only exists
 * while it has at least one player; HostID always references a player that
 * is currently a member.
 */
type Room struct {
	ID           string `gorm:"primaryKey;size:50;not null"`
	Name         string `gorm:"size:100"`
	HostID       string `gorm:"size:50;not null;index:idx_rooms_host"`
	Status       string `gorm:"size:20;default:waiting;index:idx_rooms_status"`
	MinPlayers   int    `gorm:"default:4"`
	MaxPlayers   int    `gorm:"default:8"`
	NumImpostors int    `gorm:"default:1"`
	IsPrivate    bool   `gorm:"default:false"`
	// Summary of the last finished game (winner, impostor names),
	// written when the host ends the game.
	LastGameSummary datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationship with the players currently in the room
	Players []RoomPlayer `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

/*
 * 'RoomPlayer' represents a member of a room. A nil ConnectionToken means
 * the player is disconnected but still holds their seat.
 */
type RoomPlayer struct {
	// NOTE: composite primary key definition
	RoomID          string    `gorm:"primaryKey;size:50;not null"`
	UserID          string    `gorm:"primaryKey;size:50;not null;index"`
	Username        string    `gorm:"size:50;not null"`
	ConnectionToken *string   `gorm:"size:100"`
	IsHost          bool      `gorm:"default:false"`
	JoinedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// Connected reports whether the player currently holds a live connection.
func (p *RoomPlayer) Connected() bool {
	return p.ConnectionToken != nil
}

// Random room id generation
const roomIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func generateRoomID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = roomIDCharset[rand.Intn(len(roomIDCharset))]
	}
	return string(b)
}

// BeforeCreate ensures a freshly generated id is truly unique. Codes are
// short on purpose, players type them by hand.
func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID != "" {
		return nil
	}
	for {
		newID := generateRoomID(6)
		var existing Room
		if err := tx.Where("id = ?", newID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				r.ID = newID
				return nil
			}
			return err
		}
		// Collision, loop again with a new id
	}
}
