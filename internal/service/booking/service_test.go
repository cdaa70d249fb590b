package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/repository"
	postgresrepo "github.com/matchpoint-app/matchpoint/internal/repository/postgres"
	"github.com/matchpoint-app/matchpoint/internal/retry"
)

type slotKey struct {
	fieldID uuid.UUID
	start   int64
}

// fakeBackend stands in for the postgres store: a slot ledger and a
// reservation table behind one mutex, with the same compare-and-delete
// semantics the coordinator has.
type fakeBackend struct {
	mu           sync.Mutex
	club         *domain.Club
	slots        map[slotKey]domain.FieldAvailability
	reservations map[uuid.UUID]domain.Reservation
	restoreCalls int
	failRestores int
}

func newFakeBackend(club *domain.Club) *fakeBackend {
	b := &fakeBackend{
		club:         club,
		slots:        make(map[slotKey]domain.FieldAvailability),
		reservations: make(map[uuid.UUID]domain.Reservation),
	}
	for _, slots := range club.Availability {
		for _, s := range slots {
			b.slots[slotKey{s.Field.ID, s.Start.Unix()}] = s
		}
	}
	return b
}

type fakeUsers struct {
	users map[string]domain.User
}

func (f *fakeUsers) Get(ctx context.Context, email string) (domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

type fakeClubs struct {
	club *domain.Club
}

func (f *fakeClubs) Get(ctx context.Context, id uuid.UUID) (*domain.Club, error) {
	if f.club == nil || f.club.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.club, nil
}

type fakeInventory struct {
	b *fakeBackend
}

func (f *fakeInventory) CreateReservation(
	ctx context.Context,
	p postgresrepo.CreateReservationParams,
) (*domain.Reservation, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	field, ok := f.b.club.FieldByID(p.FieldID)
	if !ok {
		return nil, repository.ErrNotFound
	}

	key := slotKey{p.FieldID, p.Start.Unix()}
	slot, ok := f.b.slots[key]
	if !ok {
		return nil, repository.ErrSlotNotFree
	}
	delete(f.b.slots, key)

	res := domain.Reservation{
		ID:    uuid.New(),
		Match: domain.Match{Players: p.Players},
		Club: domain.ClubSnapshot{
			ClubID:   f.b.club.ID,
			ClubName: f.b.club.Name,
			Field:    field,
			Location: f.b.club.Location,
		},
		Start:      p.Start,
		End:        p.End,
		ReservedBy: p.Owner,
		PriceCents: slot.PriceCents,
		Status:     domain.ReservationPending,
		Payment:    domain.PaymentPending,
		CreatedAt:  time.Now().UTC(),
	}
	f.b.reservations[res.ID] = res

	return &res, nil
}

func (f *fakeInventory) RestoreAvailability(
	ctx context.Context,
	clubID uuid.UUID,
	slot domain.FieldAvailability,
) error {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	if f.b.failRestores > 0 {
		f.b.failRestores--
		return errors.New("transient store error")
	}

	f.b.slots[slotKey{slot.Field.ID, slot.Start.Unix()}] = slot
	f.b.restoreCalls++
	return nil
}

type fakeReservations struct {
	b *fakeBackend
}

func (f *fakeReservations) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	res, ok := f.b.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (f *fakeReservations) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ReservationStatus,
	payment domain.PaymentStatus,
) (*domain.Reservation, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	res, ok := f.b.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	res.Status = status
	res.Payment = payment
	f.b.reservations[id] = res
	return &res, nil
}

func (f *fakeReservations) AddPlayer(
	ctx context.Context,
	id uuid.UUID,
	u domain.User,
) (*domain.Reservation, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	res, ok := f.b.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if len(res.Match.Players) >= domain.MaxPlayers || res.Match.HasPlayer(u.Email) {
		return nil, repository.ErrConflict
	}
	res.Match.Players = append(append([]domain.User(nil), res.Match.Players...), u)
	f.b.reservations[id] = res
	return &res, nil
}

func (f *fakeReservations) RemovePlayer(
	ctx context.Context,
	id uuid.UUID,
	email string,
) (*domain.Reservation, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	res, ok := f.b.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := make([]domain.User, 0, len(res.Match.Players))
	for _, p := range res.Match.Players {
		if p.Email != email {
			kept = append(kept, p)
		}
	}
	res.Match.Players = kept
	f.b.reservations[id] = res
	return &res, nil
}

func (f *fakeReservations) UpdateResult(
	ctx context.Context,
	id uuid.UUID,
	result domain.MatchResult,
) (*domain.Reservation, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()

	res, ok := f.b.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	res.Match.Result = &result
	f.b.reservations[id] = res
	return &res, nil
}

type fakeAnnouncer struct {
	calls atomic.Int32
}

func (f *fakeAnnouncer) ReservationChanged(ctx context.Context, res *domain.Reservation) error {
	f.calls.Add(1)
	return nil
}

type fixture struct {
	svc       *Service
	backend   *fakeBackend
	announcer *fakeAnnouncer
	tasks     *retry.Runner
	club      *domain.Club
	court     domain.Field
	start     time.Time
	end       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	court := domain.Field{ID: uuid.New(), Name: "Court 1", Indoor: true, PriceCents: 2000}
	start := time.Date(2027, 3, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	club := &domain.Club{
		ID:       uuid.New(),
		Name:     "Padel Central",
		Address:  "Main St 1",
		Location: domain.Location{Lat: 48.2, Lon: 16.37},
		Fields:   []domain.Field{court},
		Availability: domain.Availability{
			start.Format(domain.DayFormat): {
				{Start: start, End: end, Field: court, PriceCents: 2000},
			},
		},
	}

	backend := newFakeBackend(club)
	users := &fakeUsers{users: map[string]domain.User{
		"owner@x.com": {ID: uuid.New(), Email: "owner@x.com", Name: "Owner"},
		"p2@x.com":    {ID: uuid.New(), Email: "p2@x.com", Name: "P2"},
		"p3@x.com":    {ID: uuid.New(), Email: "p3@x.com", Name: "P3"},
		"p4@x.com":    {ID: uuid.New(), Email: "p4@x.com", Name: "P4"},
		"p5@x.com":    {ID: uuid.New(), Email: "p5@x.com", Name: "P5"},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tasks, err := retry.NewRunner(logger, 3)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	ann := &fakeAnnouncer{}
	svc := New(
		users,
		&fakeClubs{club: club},
		&fakeInventory{b: backend},
		&fakeReservations{b: backend},
		tasks,
		ann,
		nil,
	)

	return &fixture{
		svc:       svc,
		backend:   backend,
		announcer: ann,
		tasks:     tasks,
		club:      club,
		court:     court,
		start:     start,
		end:       end,
	}
}

func (f *fixture) create(t *testing.T, players ...string) *domain.Reservation {
	t.Helper()
	res, err := f.svc.Create(
		context.Background(),
		"owner@x.com",
		f.club.ID,
		f.court.ID,
		f.start,
		f.end,
		players,
		"",
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return res
}

func (f *fixture) slotFree() bool {
	f.backend.mu.Lock()
	defer f.backend.mu.Unlock()
	_, ok := f.backend.slots[slotKey{f.court.ID, f.start.Unix()}]
	return ok
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)

	res := f.create(t, "p2@x.com")

	if res.Status != domain.ReservationPending {
		t.Errorf("expected pending, got %s", res.Status)
	}
	if res.Payment != domain.PaymentPending {
		t.Errorf("expected pending_payment, got %s", res.Payment)
	}
	if res.ReservedBy != "owner@x.com" {
		t.Errorf("expected owner@x.com, got %s", res.ReservedBy)
	}
	if len(res.Match.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(res.Match.Players))
	}
	if !res.Match.HasPlayer("owner@x.com") {
		t.Error("owner missing from roster")
	}
	if res.Club.ClubName != "Padel Central" || res.Club.Field.ID != f.court.ID {
		t.Error("club snapshot not taken at booking time")
	}
	if f.slotFree() {
		t.Error("slot still bookable after reservation")
	}

	f.tasks.Wait()
	if f.announcer.calls.Load() == 0 {
		t.Error("change never announced")
	}
}

func TestCreateReservationConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)

	const callers = 16
	var wins, taken atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(
				context.Background(),
				"owner@x.com",
				f.club.ID,
				f.court.ID,
				f.start,
				f.end,
				nil,
				"",
			)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrSlotTaken):
				taken.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("expected exactly 1 winner, got %d", wins.Load())
	}
	if taken.Load() != callers-1 {
		t.Errorf("expected %d ErrSlotTaken, got %d", callers-1, taken.Load())
	}
	f.tasks.Wait()
}

func TestCreateReservationErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, "ghost@x.com", f.club.ID, f.court.ID, f.start, f.end, nil, ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown owner: expected ErrUserNotFound, got: %v", err)
	}

	if _, err := f.svc.Create(ctx, "owner@x.com", f.club.ID, f.court.ID, f.start, f.end, []string{"ghost@x.com"}, ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown player: expected ErrUserNotFound, got: %v", err)
	}

	over := []string{"p2@x.com", "p3@x.com", "p4@x.com", "p5@x.com"}
	if _, err := f.svc.Create(ctx, "owner@x.com", f.club.ID, f.court.ID, f.start, f.end, over, ""); !errors.Is(err, domain.ErrInvariantViolation) {
		t.Errorf("oversized roster: expected ErrInvariantViolation, got: %v", err)
	}

	if _, err := f.svc.Create(ctx, "owner@x.com", uuid.New(), f.court.ID, f.start, f.end, nil, ""); !errors.Is(err, ErrClubNotFound) {
		t.Errorf("unknown club: expected ErrClubNotFound, got: %v", err)
	}

	if _, err := f.svc.Create(ctx, "owner@x.com", f.club.ID, uuid.New(), f.start, f.end, nil, ""); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("unknown field: expected ErrFieldNotFound, got: %v", err)
	}
}

// The reservation's price comes from the consumed availability entry, and a
// cancel puts exactly that entry back. A caller has no way to book at a price
// other than the published one.
func TestReservationPriceFollowsLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// discount the published slot below the field's list price
	key := slotKey{f.court.ID, f.start.Unix()}
	f.backend.mu.Lock()
	slot := f.backend.slots[key]
	slot.PriceCents = 1500
	f.backend.slots[key] = slot
	f.backend.mu.Unlock()

	res := f.create(t)
	if res.PriceCents != 1500 {
		t.Fatalf("expected the published price 1500, got %d", res.PriceCents)
	}

	if _, err := f.svc.Cancel(ctx, res.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	f.tasks.Wait()

	f.backend.mu.Lock()
	restored, ok := f.backend.slots[key]
	f.backend.mu.Unlock()
	if !ok {
		t.Fatal("slot not restored after cancellation")
	}
	if restored.PriceCents != 1500 {
		t.Errorf("book and cancel changed the published price: got %d", restored.PriceCents)
	}
}

func TestCancelRestoresAvailability(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)

	updated, err := f.svc.Cancel(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if updated.Status != domain.ReservationCanceled {
		t.Errorf("expected canceled, got %s", updated.Status)
	}
	// never payed, nothing to refund
	if updated.Payment != domain.PaymentPending {
		t.Errorf("expected pending_payment kept, got %s", updated.Payment)
	}

	f.tasks.Wait()
	if !f.slotFree() {
		t.Error("slot not restored after cancellation")
	}
}

func TestCancelPayedBecomesToBeRefunded(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)

	if _, err := f.svc.Confirm(context.Background(), res.ID, true); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	updated, err := f.svc.Cancel(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if updated.Payment != domain.PaymentToBeRefunded {
		t.Errorf("expected to_be_refunded, got %s", updated.Payment)
	}
	f.tasks.Wait()
}

func TestCancelRejectsRepeatAndStarted(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)

	if _, err := f.svc.Cancel(context.Background(), res.ID); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), res.ID); !errors.Is(err, ErrAlreadyCanceled) {
		t.Errorf("expected ErrAlreadyCanceled, got: %v", err)
	}
	f.tasks.Wait()

	f2 := newFixture(t)
	res2 := f2.create(t)
	f2.svc.now = func() time.Time { return f2.start.Add(time.Minute) }
	if _, err := f2.svc.Cancel(context.Background(), res2.ID); !errors.Is(err, ErrMatchStarted) {
		t.Errorf("expected ErrMatchStarted, got: %v", err)
	}
	f2.tasks.Wait()
}

func TestCancelRestoreRetriesTransientFailure(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)

	f.backend.mu.Lock()
	f.backend.failRestores = 2
	f.backend.mu.Unlock()

	if _, err := f.svc.Cancel(context.Background(), res.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	f.tasks.Wait()
	if !f.slotFree() {
		t.Error("restore gave up despite remaining retry budget")
	}
}

func TestEditRosterJoinAndLeave(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)
	ctx := context.Background()

	updated, err := f.svc.EditRoster(ctx, res.ID, Add{Email: "p2@x.com"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(updated.Match.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(updated.Match.Players))
	}

	// joining again is a no-op
	again, err := f.svc.EditRoster(ctx, res.ID, Add{Email: "p2@x.com"})
	if err != nil {
		t.Fatalf("repeat Add: %v", err)
	}
	if len(again.Match.Players) != 2 {
		t.Errorf("repeat join changed the roster: %d players", len(again.Match.Players))
	}

	updated, err = f.svc.EditRoster(ctx, res.ID, Remove{Email: "p2@x.com"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if updated.Match.HasPlayer("p2@x.com") {
		t.Error("removed player still on roster")
	}

	// removing an absent player is a no-op
	if _, err := f.svc.EditRoster(ctx, res.ID, Remove{Email: "p3@x.com"}); err != nil {
		t.Errorf("removing absent player: %v", err)
	}

	f.tasks.Wait()
}

func TestEditRosterFullMatch(t *testing.T) {
	f := newFixture(t)
	res := f.create(t, "p2@x.com", "p3@x.com", "p4@x.com")

	_, err := f.svc.EditRoster(context.Background(), res.ID, Add{Email: "p5@x.com"})
	if !errors.Is(err, ErrMatchFull) {
		t.Errorf("expected ErrMatchFull, got: %v", err)
	}
	f.tasks.Wait()
}

// Four players race to join a match holding only its owner. The roster cap is
// four, so exactly three make it and the overflow join gets ErrMatchFull.
func TestEditRosterConcurrentJoinsRespectCap(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)

	emails := []string{"p2@x.com", "p3@x.com", "p4@x.com", "p5@x.com"}
	var joined, full atomic.Int32
	var wg sync.WaitGroup

	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			_, err := f.svc.EditRoster(context.Background(), res.ID, Add{Email: email})
			switch {
			case err == nil:
				joined.Add(1)
			case errors.Is(err, ErrMatchFull):
				full.Add(1)
			default:
				t.Errorf("join %s: %v", email, err)
			}
		}(email)
	}
	wg.Wait()

	if joined.Load() != 3 || full.Load() != 1 {
		t.Errorf("expected 3 joins and 1 ErrMatchFull, got %d and %d",
			joined.Load(), full.Load())
	}

	f.backend.mu.Lock()
	roster := len(f.backend.reservations[res.ID].Match.Players)
	f.backend.mu.Unlock()
	if roster != domain.MaxPlayers {
		t.Errorf("expected a full roster of %d, got %d", domain.MaxPlayers, roster)
	}
	f.tasks.Wait()
}

func TestEditRosterOwnerCannotLeave(t *testing.T) {
	f := newFixture(t)
	res := f.create(t, "p2@x.com")

	_, err := f.svc.EditRoster(context.Background(), res.ID, Remove{Email: "owner@x.com"})
	if !errors.Is(err, ErrOwnerCannotLeave) {
		t.Errorf("expected ErrOwnerCannotLeave, got: %v", err)
	}
	f.tasks.Wait()
}

type fakeLimiter struct{ allow bool }

func (f *fakeLimiter) Allow(
	ctx context.Context,
	key string,
) (bool, int64, time.Duration, error) {
	return f.allow, 0, time.Minute, nil
}

func TestCreateRateLimited(t *testing.T) {
	f := newFixture(t)
	f.svc.limiter = &fakeLimiter{}

	_, err := f.svc.Create(
		context.Background(),
		"owner@x.com",
		f.club.ID,
		f.court.ID,
		f.start,
		f.end,
		nil,
		"ip:1.2.3.4",
	)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got: %v", err)
	}
	if !f.slotFree() {
		t.Error("rate limited call consumed the slot")
	}
}

func TestRecordResult(t *testing.T) {
	f := newFixture(t)
	res := f.create(t, "p2@x.com")

	result := domain.MatchResult{Sets: []domain.SetScore{{Home: 6, Away: 4}, {Home: 7, Away: 5}}}
	updated, err := f.svc.RecordResult(context.Background(), res.ID, result)
	if err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if updated.Match.Result == nil || len(updated.Match.Result.Sets) != 2 {
		t.Fatal("result not recorded")
	}
	if updated.Match.Result.Sets[0].Home != 6 {
		t.Errorf("expected 6, got %d", updated.Match.Result.Sets[0].Home)
	}
	f.tasks.Wait()
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)
	ctx := context.Background()

	updated, err := f.svc.Confirm(ctx, res.ID, true)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if updated.Status != domain.ReservationConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}
	if updated.Payment != domain.PaymentPayed {
		t.Errorf("expected payed, got %s", updated.Payment)
	}

	if _, err := f.svc.Cancel(ctx, res.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := f.svc.Confirm(ctx, res.ID, false); !errors.Is(err, ErrAlreadyCanceled) {
		t.Errorf("confirming canceled reservation: expected ErrAlreadyCanceled, got: %v", err)
	}
	f.tasks.Wait()
}

// Full lifecycle: book, a friend joins, the match is payed, then canceled
// before start and the slot reopens for rebooking.
func TestReservationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.create(t, "p2@x.com")

	if _, err := f.svc.EditRoster(ctx, res.ID, Add{Email: "p3@x.com"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := f.svc.Confirm(ctx, res.ID, true); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	updated, err := f.svc.Cancel(ctx, res.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Payment != domain.PaymentToBeRefunded {
		t.Errorf("expected to_be_refunded, got %s", updated.Payment)
	}

	f.tasks.Wait()
	if !f.slotFree() {
		t.Error("slot not restored at the end of the lifecycle")
	}

	// the restored slot is bookable again
	if _, err := f.svc.Create(ctx, "p2@x.com", f.club.ID, f.court.ID, f.start, f.end, nil, ""); err != nil {
		t.Fatalf("rebooking restored slot: %v", err)
	}
	f.tasks.Wait()
}
