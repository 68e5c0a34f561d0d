package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingReserved  BookingStatus = "reserved"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that claim an item. At most
// one booking per item may hold one of these at a time.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingReserved, BookingConfirmed}

type Booking struct {
	ID             string        `gorm:"primaryKey" json:"id"`
	ItemID         string        `gorm:"index" json:"item_id"`
	UserID         string        `gorm:"index" json:"user_id"`
	BookedQuantity int           `json:"booked_quantity"`
	Status         BookingStatus `gorm:"index" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Open reports whether the booking can still move (cancel is legal).
func (b *Booking) Open() bool {
	return b.Status == BookingPending || b.Status == BookingReserved
}
