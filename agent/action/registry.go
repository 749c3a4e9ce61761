// Package action exposes the domain operations the agent can invoke by
// name. Every handler folds its own failures into the result envelope;
// nothing escapes the registry boundary.
package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tableside/concierge/agent/contract"
)

type handler func(ctx context.Context, params map[string]any) contractx.Envelope

type Registry struct {
	store       contractx.Store
	ledger      contractx.Ledger
	recommender contractx.Recommender

	handlers map[string]handler
	infos    []*schema.ToolInfo
}

var _ contractx.ActionRegistry = (*Registry)(nil)

// New builds the registry and checks the dispatch table against the
// catalog; a catalog entry without a handler (or the reverse) is a
// construction bug, not a runtime condition.
func New(store contractx.Store, ledger contractx.Ledger, recommender contractx.Recommender) (*Registry, error) {
	r := &Registry{
		store:       store,
		ledger:      ledger,
		recommender: recommender,
		infos:       catalog(),
	}
	r.handlers = map[string]handler{
		ActionSearchRestaurants:     r.searchRestaurants,
		ActionGetRestaurantDetails:  r.getRestaurantDetails,
		ActionCheckAvailability:     r.checkAvailability,
		ActionMakeReservation:       r.makeReservation,
		ActionGetRecommendations:    r.getRecommendations,
		ActionCancelReservation:     r.cancelReservation,
		ActionGetUserReservations:   r.getUserReservations,
		ActionUpdateUserPreferences: r.updateUserPreferences,
	}

	if len(r.handlers) != len(r.infos) {
		return nil, fmt.Errorf("action registry: %d handlers for %d catalog entries", len(r.handlers), len(r.infos))
	}
	for _, info := range r.infos {
		if _, ok := r.handlers[info.Name]; !ok {
			return nil, fmt.Errorf("action registry: no handler for %s", info.Name)
		}
	}
	return r, nil
}

// Catalog returns the ordered action descriptions for prompt
// construction.
func (r *Registry) Catalog() []*schema.ToolInfo {
	return r.infos
}

// Execute dispatches the named action. It never returns an error: an
// unknown name, a handler fault, or a panic all come back as an error
// envelope naming the action.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (env contractx.Envelope) {
	h, ok := r.handlers[name]
	if !ok {
		return contractx.ErrorEnvelope(fmt.Sprintf("Action %s not found", name))
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("action", name).Any("panic", rec).Msg("action handler panicked")
			env = contractx.ErrorEnvelope(fmt.Sprintf("Action %s failed unexpectedly", name))
		}
	}()

	if params == nil {
		params = map[string]any{}
	}
	return h(ctx, params)
}

func (r *Registry) searchRestaurants(ctx context.Context, params map[string]any) contractx.Envelope {
	filter := contractx.RestaurantFilter{
		Cuisine:    stringArg(params, "cuisine"),
		Location:   stringArg(params, "location"),
		PriceRange: stringArg(params, "price_range"),
	}
	restaurants, err := r.store.ListRestaurants(ctx, filter)
	if err != nil {
		return errEnvelope(err)
	}

	if required := stringsArg(params["features"]); len(required) > 0 {
		kept := restaurants[:0]
		for _, rest := range restaurants {
			if hasFeatures(rest, required) {
				kept = append(kept, rest)
			}
		}
		restaurants = kept
	}
	if len(restaurants) > 10 {
		restaurants = restaurants[:10]
	}

	return contractx.SuccessEnvelope(map[string]any{"restaurants": restaurants})
}

func hasFeatures(rest contractx.Restaurant, required []string) bool {
	for _, name := range required {
		if !rest.Features[name] {
			return false
		}
	}
	return true
}

func (r *Registry) getRestaurantDetails(ctx context.Context, params map[string]any) contractx.Envelope {
	id, ok := intArg(params, "restaurant_id")
	if !ok {
		return contractx.ErrorEnvelope("restaurant_id is required")
	}
	restaurant, err := r.store.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return contractx.ErrorEnvelope("Restaurant not found")
		}
		return errEnvelope(err)
	}
	return contractx.SuccessEnvelope(map[string]any{"restaurant": restaurant})
}

func (r *Registry) checkAvailability(ctx context.Context, params map[string]any) contractx.Envelope {
	id, ok := intArg(params, "restaurant_id")
	date := stringArg(params, "date")
	timeOfDay := stringArg(params, "time")
	if !ok || date == "" || timeOfDay == "" {
		return contractx.ErrorEnvelope("restaurant_id, date, and time are required")
	}
	partySize := intArgDefault(params, "party_size", 2)

	avail, err := r.ledger.CheckAvailability(ctx, id, date, timeOfDay, partySize)
	if err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return contractx.ErrorEnvelope("Restaurant not found")
		}
		return errEnvelope(err)
	}
	return contractx.SuccessEnvelope(availabilityData(avail))
}

func (r *Registry) makeReservation(ctx context.Context, params map[string]any) contractx.Envelope {
	req := contractx.ReservationRequest{
		Date:            stringArg(params, "date"),
		Time:            stringArg(params, "time"),
		SpecialRequests: stringArg(params, "special_requests"),
	}
	req.RestaurantID, _ = intArg(params, "restaurant_id")
	req.PartySize, _ = intArg(params, "party_size")
	req.UserID, _ = userIDArg(params)

	created, avail, err := r.ledger.MakeReservation(ctx, req)
	if err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return contractx.ErrorEnvelope("Restaurant not found")
		}
		return errEnvelope(err)
	}
	if created == nil {
		// Slot is full: hand back the availability result so the caller
		// sees the same shape as check_availability.
		return contractx.SuccessEnvelope(availabilityData(avail))
	}

	data := map[string]any{
		"reservation_id": created.ID,
		"reservation":    created,
	}
	if restaurant, err := r.store.GetRestaurant(ctx, created.RestaurantID); err == nil {
		data["restaurant_name"] = restaurant.Name
	}
	return contractx.SuccessEnvelope(data)
}

func (r *Registry) getRecommendations(ctx context.Context, params map[string]any) contractx.Envelope {
	prefs := mapArg(params, "preferences")
	query := contractx.RecommendQuery{
		Cuisine:    stringArg(prefs, "cuisine"),
		Location:   stringArg(prefs, "location"),
		PriceRange: stringArg(prefs, "price_range"),
		Occasion:   stringArg(prefs, "occasion"),
	}
	query.UserID, _ = userIDArg(params)

	recommendations, err := r.recommender.Recommend(ctx, query)
	if err != nil {
		return errEnvelope(err)
	}
	return contractx.SuccessEnvelope(map[string]any{"recommendations": recommendations})
}

func (r *Registry) cancelReservation(ctx context.Context, params map[string]any) contractx.Envelope {
	id, ok := intArg(params, "reservation_id")
	if !ok {
		return contractx.ErrorEnvelope("reservation_id is required")
	}
	status := contractx.StatusCancelled
	if _, err := r.store.UpdateReservation(ctx, id, contractx.ReservationPatch{Status: &status}); err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return contractx.ErrorEnvelope("Reservation not found")
		}
		return errEnvelope(err)
	}
	return contractx.SuccessMessage("Reservation cancelled successfully")
}

func (r *Registry) getUserReservations(ctx context.Context, params map[string]any) contractx.Envelope {
	userID, ok := userIDArg(params)
	if !ok {
		return contractx.ErrorEnvelope("user_id is required")
	}
	reservations, err := r.store.ListReservations(ctx, contractx.ReservationFilter{UserID: userID})
	if err != nil {
		return errEnvelope(err)
	}

	joined := make([]contractx.UserReservation, 0, len(reservations))
	for _, res := range reservations {
		if res.Status == contractx.StatusCancelled {
			continue
		}
		entry := contractx.UserReservation{Reservation: res}
		// A reservation whose restaurant has since gone away is still
		// listed, just without the embedded record.
		if restaurant, err := r.store.GetRestaurant(ctx, res.RestaurantID); err == nil {
			entry.Restaurant = restaurant
		}
		joined = append(joined, entry)
	}
	return contractx.SuccessEnvelope(map[string]any{"reservations": joined})
}

func (r *Registry) updateUserPreferences(ctx context.Context, params map[string]any) contractx.Envelope {
	userID, ok := userIDArg(params)
	if !ok {
		return contractx.ErrorEnvelope("user_id is required")
	}
	prefs := preferencesArg(mapArg(params, "preferences"))
	if _, err := r.store.UpdateUser(ctx, userID, contractx.UserPatch{Preferences: &prefs}); err != nil {
		if errors.Is(err, contractx.ErrNotFound) {
			return contractx.ErrorEnvelope("User not found")
		}
		return errEnvelope(err)
	}
	return contractx.SuccessMessage("Preferences updated successfully")
}

func availabilityData(avail contractx.Availability) map[string]any {
	return map[string]any{
		"available":           avail.Available,
		"remaining_capacity":  avail.RemainingCapacity,
		"restaurant_capacity": avail.RestaurantCapacity,
	}
}

func errEnvelope(err error) contractx.Envelope {
	return contractx.ErrorEnvelope(err.Error())
}
