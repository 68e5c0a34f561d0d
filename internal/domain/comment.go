package domain

import "time"

type Comment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ItemID    string    `gorm:"index" json:"item_id"`
	UserID    string    `gorm:"index" json:"user_id"`
	UserName  string    `gorm:"-" json:"user_name,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
