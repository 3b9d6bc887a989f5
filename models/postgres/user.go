package postgres

import (
	"time"
)

/*
 * 'User' contains the blueprint definition of an account. The email is only
 * used to log in; the username is what other players see in a room.
 */
type User struct {
	Email        string    `gorm:"primaryKey;size:100;not null"`
	Username     string    `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	MemberSince  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
