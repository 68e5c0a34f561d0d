package domain

import "errors"

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotifNotFound   = errors.New("notification not found")
	ErrEmailTaken      = errors.New("email already registered")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization: wrong actor for the transition.
	ErrNotSeller = errors.New("only the seller can perform this action")
	ErrNotOwner  = errors.New("you are not authorized to edit this item")
	ErrNotParty  = errors.New("you are not authorized for this booking")

	// Conflicts: legal actor, illegal state.
	ErrItemNotAvailable = errors.New("item is not available")
	ErrOwnItem          = errors.New("you cannot book your own item")
	ErrNotPending       = errors.New("only pending reservations can be accepted or rejected")
	ErrNotReserved      = errors.New("only reserved bookings can be confirmed")
	ErrBookingClosed    = errors.New("booking is already cancelled or confirmed")
	ErrAlreadySold      = errors.New("item is already marked as sold")
	ErrItemBooked       = errors.New("item has an active booking")
)
