package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func day(t *testing.T, s string, hour int) time.Time {
	t.Helper()
	d, err := time.Parse(DayFormat, s)
	if err != nil {
		t.Fatalf("bad day %q: %v", s, err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestAvailabilityValidate(t *testing.T) {
	court := Field{ID: uuid.New(), Name: "Court 1", Indoor: true, PriceCents: 2000}
	fields := []Field{court}

	valid := Availability{
		"2026-09-10": {
			{Start: day(t, "2026-09-10", 9), End: day(t, "2026-09-10", 10), Field: court, PriceCents: 2000},
			{Start: day(t, "2026-09-10", 10), End: day(t, "2026-09-10", 11), Field: court, PriceCents: 2000},
		},
	}
	if err := valid.Validate(fields); err != nil {
		t.Fatalf("valid ledger rejected: %v", err)
	}

	tests := []struct {
		name string
		av   Availability
	}{
		{
			name: "bad date bucket",
			av: Availability{
				"not-a-date": {
					{Start: day(t, "2026-09-10", 9), End: day(t, "2026-09-10", 10), Field: court},
				},
			},
		},
		{
			name: "empty bucket",
			av:   Availability{"2026-09-10": {}},
		},
		{
			name: "slot filed under wrong day",
			av: Availability{
				"2026-09-11": {
					{Start: day(t, "2026-09-10", 9), End: day(t, "2026-09-10", 10), Field: court},
				},
			},
		},
		{
			name: "slot ends before it starts",
			av: Availability{
				"2026-09-10": {
					{Start: day(t, "2026-09-10", 10), End: day(t, "2026-09-10", 9), Field: court},
				},
			},
		},
		{
			name: "unknown field",
			av: Availability{
				"2026-09-10": {
					{Start: day(t, "2026-09-10", 9), End: day(t, "2026-09-10", 10), Field: Field{ID: uuid.New()}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.av.Validate(fields)
			if !errors.Is(err, ErrInvariantViolation) {
				t.Errorf("expected ErrInvariantViolation, got: %v", err)
			}
		})
	}
}

func TestNewClubRejectsBadLedger(t *testing.T) {
	court := Field{ID: uuid.New(), Name: "Court 1"}

	bad := Availability{
		"2026-09-10": {
			{Start: day(t, "2026-09-10", 9), End: day(t, "2026-09-10", 10), Field: Field{ID: uuid.New()}},
		},
	}

	_, err := NewClub("Club", "Street 1", Location{}, []Field{court}, bad, 0, Contacts{})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got: %v", err)
	}
}

func TestNewMatchRosterBounds(t *testing.T) {
	if _, err := NewMatch(nil); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("empty roster: expected ErrInvariantViolation, got: %v", err)
	}

	five := make([]User, MaxPlayers+1)
	if _, err := NewMatch(five); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("oversized roster: expected ErrInvariantViolation, got: %v", err)
	}

	m, err := NewMatch([]User{{Email: "a@b.c"}})
	if err != nil {
		t.Fatalf("single player roster rejected: %v", err)
	}
	if len(m.Players) != 1 {
		t.Errorf("expected 1 player, got %d", len(m.Players))
	}
}

func TestReservationSlotUsesOwnSnapshot(t *testing.T) {
	court := Field{ID: uuid.New(), Name: "Court 1", PriceCents: 1500}
	start := day(t, "2026-09-10", 9)
	end := day(t, "2026-09-10", 10)

	r := Reservation{
		Start:      start,
		End:        end,
		PriceCents: 1500,
		Club:       ClubSnapshot{Field: court},
	}

	slot := r.Slot()
	if !slot.Matches(court.ID, start, end) {
		t.Error("restored slot does not match the booked one")
	}
	if slot.PriceCents != 1500 {
		t.Errorf("expected booking-time price 1500, got %d", slot.PriceCents)
	}
	if slot.Day() != "2026-09-10" {
		t.Errorf("expected day bucket 2026-09-10, got %s", slot.Day())
	}
}
