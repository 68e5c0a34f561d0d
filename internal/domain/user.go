package domain

import "time"

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	Picture      string    `json:"picture"`
	CreatedAt    time.Time `json:"created_at"`
}
