package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	contractx "github.com/tableside/concierge/agent/contract"
)

// MemoryStore keeps all records in process memory, guarded by one
// mutex. List calls return copied slices so concurrent readers never
// observe a torn snapshot. Identity assignment is max existing id + 1.
type MemoryStore struct {
	mu           sync.Mutex
	restaurants  []contractx.Restaurant
	users        []contractx.User
	reservations []contractx.Reservation

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) ListRestaurants(ctx context.Context, filter contractx.RestaurantFilter) ([]contractx.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contractx.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		if filter.Cuisine != "" && !strings.EqualFold(r.Cuisine, filter.Cuisine) {
			continue
		}
		if filter.Location != "" && !strings.EqualFold(r.Location, filter.Location) {
			continue
		}
		if filter.PriceRange != "" && r.PriceRange != filter.PriceRange {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryStore) GetRestaurant(ctx context.Context, id int) (*contractx.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.restaurants {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: restaurant id=%d", contractx.ErrNotFound, id)
}

func (s *MemoryStore) AddRestaurant(ctx context.Context, r contractx.Restaurant) (*contractx.Restaurant, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", contractx.ErrValidation)
	}
	if r.Capacity <= 0 {
		return nil, fmt.Errorf("%w: restaurant capacity must be positive", contractx.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = nextID(s.restaurants, func(x contractx.Restaurant) int { return x.ID })
	r.CreatedAt = s.now().UTC()
	s.restaurants = append(s.restaurants, r)
	cp := r
	return &cp, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id int) (*contractx.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user id=%d", contractx.ErrNotFound, id)
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*contractx.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user email=%s", contractx.ErrNotFound, email)
}

func (s *MemoryStore) AddUser(ctx context.Context, u contractx.User) (*contractx.User, error) {
	var missing []string
	if strings.TrimSpace(u.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(u.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(u.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", contractx.ErrValidation, strings.Join(missing, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, fmt.Errorf("%w: user with email %s already exists", contractx.ErrConflict, u.Email)
		}
	}

	u.ID = nextID(s.users, func(x contractx.User) int { return x.ID })
	u.CreatedAt = s.now().UTC()
	s.users = append(s.users, u)
	cp := u
	return &cp, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int, patch contractx.UserPatch) (*contractx.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.users[i].Name = *patch.Name
		}
		if patch.Email != nil {
			s.users[i].Email = *patch.Email
		}
		if patch.Phone != nil {
			s.users[i].Phone = *patch.Phone
		}
		if patch.Preferences != nil {
			prefs := *patch.Preferences
			s.users[i].Preferences = &prefs
		}
		cp := s.users[i]
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: user id=%d", contractx.ErrNotFound, id)
}

func (s *MemoryStore) ListReservations(ctx context.Context, filter contractx.ReservationFilter) ([]contractx.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contractx.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if filter.UserID != 0 && r.UserID != filter.UserID {
			continue
		}
		if filter.RestaurantID != 0 && r.RestaurantID != filter.RestaurantID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryStore) GetReservation(ctx context.Context, id int) (*contractx.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reservations {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: reservation id=%d", contractx.ErrNotFound, id)
}

func (s *MemoryStore) AddReservation(ctx context.Context, r contractx.Reservation) (*contractx.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = nextID(s.reservations, func(x contractx.Reservation) int { return x.ID })
	r.Status = contractx.StatusConfirmed
	r.CreatedAt = s.now().UTC()
	s.reservations = append(s.reservations, r)
	cp := r
	return &cp, nil
}

func (s *MemoryStore) UpdateReservation(ctx context.Context, id int, patch contractx.ReservationPatch) (*contractx.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reservations {
		if s.reservations[i].ID != id {
			continue
		}
		if patch.Date != nil {
			s.reservations[i].Date = *patch.Date
		}
		if patch.Time != nil {
			s.reservations[i].Time = *patch.Time
		}
		if patch.PartySize != nil {
			s.reservations[i].PartySize = *patch.PartySize
		}
		if patch.Status != nil {
			s.reservations[i].Status = *patch.Status
		}
		if patch.SpecialRequests != nil {
			s.reservations[i].SpecialRequests = *patch.SpecialRequests
		}
		cp := s.reservations[i]
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: reservation id=%d", contractx.ErrNotFound, id)
}

func nextID[T any](items []T, id func(T) int) int {
	max := 0
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
