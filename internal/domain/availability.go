package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DayFormat is the key format of availability date buckets.
const DayFormat = "2006-01-02"

// ErrInvariantViolation marks malformed availability or match data detected
// at construction time. It is a programming or data error, not something a
// caller should retry.
var ErrInvariantViolation = errors.New("invariant violation")

// FieldAvailability is one bookable slot: a timeslot on a field at a price.
// It is an immutable value; two entries are equal when all fields match.
type FieldAvailability struct {
	Start      time.Time
	End        time.Time
	Field      Field
	PriceCents int
}

// Day returns the date bucket this slot belongs to.
func (fa FieldAvailability) Day() string {
	return fa.Start.Format(DayFormat)
}

// Matches reports whether this entry is exactly the requested slot.
func (fa FieldAvailability) Matches(fieldID uuid.UUID, start, end time.Time) bool {
	return fa.Field.ID == fieldID && fa.Start.Equal(start) && fa.End.Equal(end)
}

// Availability is a club's ledger of bookable slots, bucketed by day.
// Buckets are never empty: a day with no slots has no key.
type Availability map[string][]FieldAvailability

// Validate checks the ledger invariants against the club's declared fields:
// every bucket key is a valid date, every entry starts on its bucket's day
// and ends after it starts, and every entry's field belongs to the club.
func (a Availability) Validate(clubFields []Field) error {
	known := make(map[uuid.UUID]struct{}, len(clubFields))
	for _, f := range clubFields {
		known[f.ID] = struct{}{}
	}

	for day, slots := range a {
		if _, err := time.Parse(DayFormat, day); err != nil {
			return fmt.Errorf("%w: bad date bucket %q", ErrInvariantViolation, day)
		}

		if len(slots) == 0 {
			return fmt.Errorf("%w: empty date bucket %q", ErrInvariantViolation, day)
		}

		for _, s := range slots {
			if s.Day() != day {
				return fmt.Errorf(
					"%w: slot starting %s filed under %q",
					ErrInvariantViolation, s.Start.Format(time.RFC3339), day,
				)
			}

			if !s.End.After(s.Start) {
				return fmt.Errorf(
					"%w: slot on %q ends before it starts",
					ErrInvariantViolation, day,
				)
			}

			if _, ok := known[s.Field.ID]; !ok {
				return fmt.Errorf(
					"%w: slot on %q references unknown field %s",
					ErrInvariantViolation, day, s.Field.ID,
				)
			}
		}
	}

	return nil
}

// NewClub builds a club, rejecting any availability that violates the
// ledger invariants. A club violating them is never observable.
func NewClub(
	name, address string,
	location Location,
	fields []Field,
	availability Availability,
	avgPriceCents int,
	contacts Contacts,
) (*Club, error) {
	if err := availability.Validate(fields); err != nil {
		return nil, err
	}

	return &Club{
		Name:          name,
		Address:       address,
		Location:      location,
		Fields:        fields,
		Availability:  availability,
		AvgPriceCents: avgPriceCents,
		Contacts:      contacts,
	}, nil
}

// NewMatch builds a match roster, enforcing 1..MaxPlayers players.
func NewMatch(players []User) (Match, error) {
	if len(players) == 0 || len(players) > MaxPlayers {
		return Match{}, fmt.Errorf(
			"%w: match must have between 1 and %d players, got %d",
			ErrInvariantViolation, MaxPlayers, len(players),
		)
	}

	return Match{Players: players}, nil
}
