package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys for booking lifecycle events published by the API and
// consumed by the notification worker.
const (
	RKBookingRequested = "booking.requested"
	RKBookingAccepted  = "booking.accepted"
	RKBookingRejected  = "booking.rejected"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"
	RKItemPurchased    = "item.purchased"
)

// BookingEvent carries enough for the worker to compose a notification
// without reading the database.
type BookingEvent struct {
	BookingID   string `json:"booking_id"`
	ItemID      string `json:"item_id"`
	ItemTitle   string `json:"item_title"`
	BuyerID     string `json:"buyer_id"`
	SellerID    string `json:"seller_id"`
	CancelledBy string `json:"cancelled_by,omitempty"` // only on booking.cancelled
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
