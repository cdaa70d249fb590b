package booking

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrClubNotFound        = errors.New("club not found")
	ErrFieldNotFound       = errors.New("field not found")
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrSlotTaken means the requested slot was consumed by a concurrent
	// booking. The caller may pick another slot; the service never retries.
	ErrSlotTaken = errors.New("slot already taken")

	ErrMatchFull = errors.New("match is full")

	// ErrRateLimited means the caller exceeded the booking rate budget and
	// should retry later.
	ErrRateLimited = errors.New("rate limited")

	// Lifecycle misuse, rejected rather than ignored.
	ErrAlreadyCanceled  = errors.New("reservation is already canceled")
	ErrMatchStarted     = errors.New("match start time has passed")
	ErrOwnerCannotLeave = errors.New("reservation owner must cancel instead of leaving")
)
