package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCanceled  ReservationStatus = "canceled"
)

type PaymentStatus string

const (
	PaymentPending      PaymentStatus = "pending_payment"
	PaymentPayed        PaymentStatus = "payed"
	PaymentRefunded     PaymentStatus = "refunded"
	PaymentToBeRefunded PaymentStatus = "to_be_refunded"
)

// MaxPlayers is the roster capacity of a match.
const MaxPlayers = 4

type User struct {
	ID    uuid.UUID
	Email string
	Name  string
}

type Location struct {
	Lat float64
	Lon float64
}

type Contacts struct {
	Phone string
	Email string
}

type Field struct {
	ID     uuid.UUID
	Name   string
	Indoor bool
	// PriceCents is the club's current list price for one slot on this field.
	PriceCents int
}

type Club struct {
	ID            uuid.UUID
	Name          string
	Address       string
	Location      Location
	Fields        []Field
	Availability  Availability
	AvgPriceCents int
	Contacts      Contacts
}

// HasField reports whether the club declares a field with the given ID.
func (c *Club) HasField(fieldID uuid.UUID) bool {
	for _, f := range c.Fields {
		if f.ID == fieldID {
			return true
		}
	}
	return false
}

// FieldByID returns the club's field with the given ID.
func (c *Club) FieldByID(fieldID uuid.UUID) (Field, bool) {
	for _, f := range c.Fields {
		if f.ID == fieldID {
			return f, true
		}
	}
	return Field{}, false
}

type SetScore struct {
	Home int
	Away int
}

type MatchResult struct {
	Sets []SetScore
}

type Match struct {
	Players []User
	Result  *MatchResult
}

// HasPlayer reports whether a player with the given email is on the roster.
func (m *Match) HasPlayer(email string) bool {
	for _, p := range m.Players {
		if p.Email == email {
			return true
		}
	}
	return false
}

// ClubSnapshot is the club identity captured at booking time. It is kept on
// the reservation so it stays displayable even if the club record changes;
// it is refreshed by a best-effort fan-out, never read back from the club.
type ClubSnapshot struct {
	ClubID   uuid.UUID
	ClubName string
	Field    Field
	Location Location
}

type Reservation struct {
	ID         uuid.UUID
	Match      Match
	Club       ClubSnapshot
	Start      time.Time
	End        time.Time
	ReservedBy string // owner's email
	PriceCents int
	Status     ReservationStatus
	Payment    PaymentStatus
	CreatedAt  time.Time
}

// Slot reconstructs the availability entry this reservation consumed, using
// the reservation's own snapshot. If the field's price changed after booking,
// the restored entry keeps the values from booking time.
func (r *Reservation) Slot() FieldAvailability {
	return FieldAvailability{
		Start:      r.Start,
		End:        r.End,
		Field:      r.Club.Field,
		PriceCents: r.PriceCents,
	}
}
