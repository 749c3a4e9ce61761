package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// RestaurantFilter narrows ListRestaurants. Zero values match everything.
// Cuisine and location match case-insensitively, price range exactly.
type RestaurantFilter struct {
	Cuisine    string
	Location   string
	PriceRange string
}

// ReservationFilter narrows ListReservations. Zero values match everything.
type ReservationFilter struct {
	UserID       int
	RestaurantID int
	Status       string
}

// UserPatch updates a user record. Nil fields are left untouched;
// a non-nil Preferences replaces the stored profile wholesale.
type UserPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	Preferences *Preferences
}

// ReservationPatch updates a reservation record. Nil fields are left
// untouched.
type ReservationPatch struct {
	Date            *string
	Time            *string
	PartySize       *int
	Status          *string
	SpecialRequests *string
}

// Store is the record-store contract the core consumes. All list/get
// calls must reflect the latest committed writes; list calls return a
// consistent snapshot in original storage order.
type Store interface {
	ListRestaurants(ctx context.Context, filter RestaurantFilter) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id int) (*Restaurant, error)
	AddRestaurant(ctx context.Context, r Restaurant) (*Restaurant, error)

	GetUser(ctx context.Context, id int) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	AddUser(ctx context.Context, u User) (*User, error)
	UpdateUser(ctx context.Context, id int, patch UserPatch) (*User, error)

	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	GetReservation(ctx context.Context, id int) (*Reservation, error)
	AddReservation(ctx context.Context, r Reservation) (*Reservation, error)
	UpdateReservation(ctx context.Context, id int, patch ReservationPatch) (*Reservation, error)
}

// Ledger is the capacity accounting contract. It is the only code path
// allowed to authorize a new confirmed reservation.
type Ledger interface {
	CheckAvailability(ctx context.Context, restaurantID int, date, timeOfDay string, partySize int) (Availability, error)
	// MakeReservation rechecks the slot under a per-slot lock. When the
	// party does not fit it returns the availability result with a nil
	// reservation and nil error; no record is created.
	MakeReservation(ctx context.Context, req ReservationRequest) (*Reservation, Availability, error)
}

// RecommendQuery is the recommender's resolved or ad hoc preference bag.
// Explicit fields overlay the stored profile for UserID, field by field.
type RecommendQuery struct {
	UserID     int
	Cuisine    string
	Location   string
	PriceRange string
	Occasion   string
	Limit      int
}

// Recommender ranks restaurants against a free-text preference profile.
type Recommender interface {
	Recommend(ctx context.Context, q RecommendQuery) ([]Restaurant, error)
	SimilarRestaurants(ctx context.Context, restaurantID, limit int) ([]Restaurant, error)
}

// ChatModel is the outbound language-model call: prompt in, completion
// out. Implementations must bound the call with a configurable timeout
// and surface failures as typed errors.
type ChatModel interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ActionRegistry executes named domain actions and describes them for
// prompt construction. Execute never returns an error; every fault is
// folded into the envelope.
type ActionRegistry interface {
	Execute(ctx context.Context, name string, params map[string]any) Envelope
	Catalog() []*schema.ToolInfo
}
