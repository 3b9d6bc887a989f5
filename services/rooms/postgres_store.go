package rooms

import (
	"errors"

	models "Wordspy/models/postgres"

	"gorm.io/gorm"
)

// PostgresStore persists rooms through GORM. Player rows are replaced
// together with the room row in one transaction so host changes and
// membership changes land atomically.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(room *models.Room) error {
	return s.db.Create(room).Error
}

func (s *PostgresStore) Find(id string) (*models.Room, error) {
	var room models.Room
	err := s.db.Preload("Players", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at ASC")
	}).Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *PostgresStore) FindByPlayer(userID string) (*models.Room, error) {
	var member models.RoomPlayer
	err := s.db.Where("user_id = ?", userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.Find(member.RoomID)
}

func (s *PostgresStore) ListWaiting() ([]*models.Room, error) {
	var rooms []*models.Room
	err := s.db.Preload("Players").
		Where("status = ? AND is_private = ?", models.RoomStatusWaiting, false).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	// The free-slot filter happens here, the player count lives in a
	// separate table.
	open := rooms[:0]
	for _, room := range rooms {
		if len(room.Players) < room.MaxPlayers {
			open = append(open, room)
		}
	}
	return open, nil
}

func (s *PostgresStore) ListIDs() ([]string, error) {
	var ids []string
	if err := s.db.Model(&models.Room{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *PostgresStore) Update(room *models.Room) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.RoomPlayer{}).Error; err != nil {
			return err
		}
		if len(room.Players) > 0 {
			if err := tx.Create(&room.Players).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: false}).
			Omit("Players").Save(room).Error
	})
}

func (s *PostgresStore) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&models.RoomPlayer{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Room{}).Error
	})
}
