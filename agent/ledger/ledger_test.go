package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	contractx "github.com/tableside/concierge/agent/contract"
	storex "github.com/tableside/concierge/agent/store"
)

func fixture(t *testing.T, capacity int) (*Ledger, contractx.Store) {
	t.Helper()
	s := storex.NewMemoryStore()
	ctx := context.Background()
	if _, err := s.AddRestaurant(ctx, contractx.Restaurant{
		Name:     "Corner Table",
		Cuisine:  "French",
		Location: "Old Town",
		Capacity: capacity,
	}); err != nil {
		t.Fatalf("add restaurant: %v", err)
	}
	if _, err := s.AddUser(ctx, contractx.User{Name: "A", Email: "a@example.com", Phone: "1"}); err != nil {
		t.Fatalf("add user: %v", err)
	}
	return New(s), s
}

func TestCheckAvailabilityValidation(t *testing.T) {
	t.Parallel()

	l, _ := fixture(t, 4)
	ctx := context.Background()

	cases := []struct {
		name string
		id   int
		date string
		tod  string
	}{
		{"missing restaurant", 0, "2024-06-01", "19:00"},
		{"missing date", 1, "", "19:00"},
		{"missing time", 1, "2024-06-01", ""},
		{"bad date", 1, "06/01/2024", "19:00"},
		{"bad time", 1, "2024-06-01", "7pm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.CheckAvailability(ctx, tc.id, tc.date, tc.tod, 2)
			if !errors.Is(err, contractx.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	_, err := l.CheckAvailability(ctx, 99, "2024-06-01", "19:00", 2)
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown restaurant, got %v", err)
	}
}

func TestCheckAvailabilityScenario(t *testing.T) {
	t.Parallel()

	l, s := fixture(t, 4)
	ctx := context.Background()

	if _, err := s.AddReservation(ctx, contractx.Reservation{
		RestaurantID: 1, UserID: 1, Date: "2024-06-01", Time: "19:00", PartySize: 3,
	}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}

	got, err := l.CheckAvailability(ctx, 1, "2024-06-01", "19:00", 2)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got.Available || got.RemainingCapacity != 1 || got.RestaurantCapacity != 4 {
		t.Fatalf("party of 2: %+v", got)
	}

	got, err = l.CheckAvailability(ctx, 1, "2024-06-01", "19:00", 1)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !got.Available || got.RemainingCapacity != 1 {
		t.Fatalf("party of 1: %+v", got)
	}
}

func TestCheckAvailabilityIsPureReader(t *testing.T) {
	t.Parallel()

	l, _ := fixture(t, 4)
	ctx := context.Background()

	first, err := l.CheckAvailability(ctx, 1, "2024-06-01", "19:00", 2)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	second, err := l.CheckAvailability(ctx, 1, "2024-06-01", "19:00", 2)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if first != second {
		t.Fatalf("results differ with no intervening writes: %+v vs %+v", first, second)
	}
}

func TestMakeReservationMissingFields(t *testing.T) {
	t.Parallel()

	l, _ := fixture(t, 4)
	_, _, err := l.MakeReservation(context.Background(), contractx.ReservationRequest{
		RestaurantID: 1,
		Date:         "2024-06-01",
	})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	for _, field := range []string{"user_id", "time", "party_size"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error must name %q: %v", field, err)
		}
	}
}

func TestMakeReservationFullSlotCreatesNothing(t *testing.T) {
	t.Parallel()

	l, s := fixture(t, 4)
	ctx := context.Background()

	if _, err := s.AddReservation(ctx, contractx.Reservation{
		RestaurantID: 1, UserID: 1, Date: "2024-06-01", Time: "19:00", PartySize: 3,
	}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}

	created, avail, err := l.MakeReservation(ctx, contractx.ReservationRequest{
		RestaurantID: 1, UserID: 1, Date: "2024-06-01", Time: "19:00", PartySize: 2,
	})
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if created != nil {
		t.Fatalf("no reservation may be created: %+v", created)
	}
	if avail.Available || avail.RemainingCapacity != 1 || avail.RestaurantCapacity != 4 {
		t.Fatalf("availability figures: %+v", avail)
	}

	all, err := s.ListReservations(ctx, contractx.ReservationFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("reservation count changed: %d", len(all))
	}
}

func TestCancelledReservationsFreeCapacity(t *testing.T) {
	t.Parallel()

	l, s := fixture(t, 4)
	ctx := context.Background()

	created, _, err := l.MakeReservation(ctx, contractx.ReservationRequest{
		RestaurantID: 1, UserID: 1, Date: "2024-06-01", Time: "19:00", PartySize: 4,
	})
	if err != nil || created == nil {
		t.Fatalf("make: %v %v", created, err)
	}

	got, err := l.CheckAvailability(ctx, 1, "2024-06-01", "19:00", 1)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got.Available {
		t.Fatalf("slot should be full: %+v", got)
	}

	cancelled := contractx.StatusCancelled
	if _, err := s.UpdateReservation(ctx, created.ID, contractx.ReservationPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got, err = l.CheckAvailability(ctx, 1, "2024-06-01", "19:00", 4)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !got.Available || got.RemainingCapacity != 4 {
		t.Fatalf("cancelled booking still counted: %+v", got)
	}
}

func TestConcurrentBookingsNeverOverbook(t *testing.T) {
	t.Parallel()

	l, s := fixture(t, 3)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]*contractx.Reservation, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, _, err := l.MakeReservation(ctx, contractx.ReservationRequest{
				RestaurantID: 1, UserID: 1, Date: "2024-06-01", Time: "19:00", PartySize: 3,
			})
			if err != nil {
				t.Errorf("make: %v", err)
				return
			}
			results[i] = created
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r != nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("exactly one booking must win, got %d", succeeded)
	}

	reservations, err := s.ListReservations(ctx, contractx.ReservationFilter{RestaurantID: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	total := 0
	for _, r := range reservations {
		if r.Status == contractx.StatusConfirmed {
			total += r.PartySize
		}
	}
	if total > 3 {
		t.Fatalf("capacity invariant violated: %d seats booked for capacity 3", total)
	}
}
