package domain

import "time"

// Notification types, one per booking event that reaches a counterparty.
const (
	NotifReservationRequest  = "reservation_request"
	NotifReservationAccepted = "reservation_accepted"
	NotifReservationRejected = "reservation_rejected"
	NotifBookingCancelled    = "booking_cancelled"
	NotifItemSold            = "item_sold"
	NotifItemPurchased       = "item_purchased"
)

type Notification struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ItemID    string    `gorm:"index" json:"item_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
