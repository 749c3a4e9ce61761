// Package ledger is the capacity accounting core. It is the single
// source of truth for whether a party fits a (restaurant, date, time)
// slot, and the only code path allowed to create a confirmed
// reservation.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tableside/concierge/agent/contract"
)

type slotKey struct {
	restaurantID int
	date         string
	time         string
}

type Ledger struct {
	store contractx.Store

	// Per-slot mutexes serialize the recheck-then-append sequence so
	// two parties cannot both pass the availability check and jointly
	// overbook the slot. Reads never take a slot lock.
	mu    sync.Mutex
	slots map[slotKey]*sync.Mutex
}

var _ contractx.Ledger = (*Ledger)(nil)

func New(store contractx.Store) *Ledger {
	return &Ledger{
		store: store,
		slots: make(map[slotKey]*sync.Mutex),
	}
}

// CheckAvailability recomputes the remaining seats for the slot fresh
// from storage. Pure read, no side effects.
func (l *Ledger) CheckAvailability(ctx context.Context, restaurantID int, date, timeOfDay string, partySize int) (contractx.Availability, error) {
	if err := validateSlot(restaurantID, date, timeOfDay); err != nil {
		return contractx.Availability{}, err
	}
	if partySize <= 0 {
		return contractx.Availability{}, fmt.Errorf("%w: party_size must be positive", contractx.ErrValidation)
	}

	restaurant, err := l.store.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return contractx.Availability{}, err
	}

	reserved, err := l.reservedSeats(ctx, restaurantID, date, timeOfDay)
	if err != nil {
		return contractx.Availability{}, err
	}

	remaining := restaurant.Capacity - reserved
	return contractx.Availability{
		Available:          remaining >= partySize,
		RemainingCapacity:  remaining,
		RestaurantCapacity: restaurant.Capacity,
	}, nil
}

// MakeReservation rechecks the slot under its lock and appends the
// confirmed reservation when the party fits. A full slot yields the
// availability result with a nil reservation; no record is created.
func (l *Ledger) MakeReservation(ctx context.Context, req contractx.ReservationRequest) (*contractx.Reservation, contractx.Availability, error) {
	var missing []string
	if req.RestaurantID <= 0 {
		missing = append(missing, "restaurant_id")
	}
	if req.UserID <= 0 {
		missing = append(missing, "user_id")
	}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(req.Time) == "" {
		missing = append(missing, "time")
	}
	if req.PartySize <= 0 {
		missing = append(missing, "party_size")
	}
	if len(missing) > 0 {
		return nil, contractx.Availability{}, fmt.Errorf("%w: missing required fields: %s",
			contractx.ErrValidation, strings.Join(missing, ", "))
	}

	unlock := l.lockSlot(req.RestaurantID, req.Date, req.Time)
	defer unlock()

	avail, err := l.CheckAvailability(ctx, req.RestaurantID, req.Date, req.Time, req.PartySize)
	if err != nil {
		return nil, contractx.Availability{}, err
	}
	if !avail.Available {
		log.Debug().
			Int("restaurant_id", req.RestaurantID).
			Str("date", req.Date).
			Str("time", req.Time).
			Int("party_size", req.PartySize).
			Int("remaining", avail.RemainingCapacity).
			Msg("booking rejected: slot full")
		return nil, avail, nil
	}

	created, err := l.store.AddReservation(ctx, contractx.Reservation{
		RestaurantID:    req.RestaurantID,
		UserID:          req.UserID,
		Date:            req.Date,
		Time:            req.Time,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return nil, contractx.Availability{}, err
	}

	log.Info().
		Int("reservation_id", created.ID).
		Int("restaurant_id", created.RestaurantID).
		Str("date", created.Date).
		Str("time", created.Time).
		Int("party_size", created.PartySize).
		Msg("reservation confirmed")
	return created, avail, nil
}

func (l *Ledger) reservedSeats(ctx context.Context, restaurantID int, date, timeOfDay string) (int, error) {
	reservations, err := l.store.ListReservations(ctx, contractx.ReservationFilter{
		RestaurantID: restaurantID,
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, r := range reservations {
		if r.Date != date || r.Time != timeOfDay {
			continue
		}
		if r.Status == contractx.StatusCancelled {
			continue
		}
		total += r.PartySize
	}
	return total, nil
}

func (l *Ledger) lockSlot(restaurantID int, date, timeOfDay string) func() {
	key := slotKey{restaurantID: restaurantID, date: date, time: timeOfDay}

	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &sync.Mutex{}
		l.slots[key] = slot
	}
	l.mu.Unlock()

	slot.Lock()
	return slot.Unlock
}

func validateSlot(restaurantID int, date, timeOfDay string) error {
	var missing []string
	if restaurantID <= 0 {
		missing = append(missing, "restaurant_id")
	}
	if strings.TrimSpace(date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(timeOfDay) == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", contractx.ErrValidation, strings.Join(missing, ", "))
	}

	if _, err := time.Parse(contractx.DateFormat, date); err != nil {
		return fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", contractx.ErrValidation, date)
	}
	if _, err := time.Parse(contractx.TimeFormat, timeOfDay); err != nil {
		return fmt.Errorf("%w: invalid time %q, expected HH:MM", contractx.ErrValidation, timeOfDay)
	}
	return nil
}
