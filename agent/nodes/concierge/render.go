package conciergenode

import (
	"fmt"
	"strings"

	contractx "github.com/tableside/concierge/agent/contract"
)

const renderCap = 3

// Render turns a result envelope into user-facing text. It is a pure
// function of envelope shape; no model output is involved.
func Render(env contractx.Envelope) string {
	if env.IsError() {
		return fmt.Sprintf("I apologize, but I encountered an error: %s", env.Message)
	}

	data := env.Data
	if restaurants, ok := data["restaurants"].([]contractx.Restaurant); ok {
		return renderRestaurants(restaurants)
	}
	if reservation, ok := data["reservation"].(*contractx.Reservation); ok {
		return renderReservation(reservation, data)
	}
	if recommendations, ok := data["recommendations"].([]contractx.Restaurant); ok {
		return renderRecommendations(recommendations)
	}
	if reservations, ok := data["reservations"].([]contractx.UserReservation); ok {
		return renderUserReservations(reservations)
	}
	if available, ok := data["available"].(bool); ok {
		return renderAvailability(available, data)
	}

	return "I've processed your request successfully. Is there anything else you'd like to know?"
}

func restaurantLine(r contractx.Restaurant) string {
	return fmt.Sprintf("- %s (%s): %s in %s\n", r.Name, r.Cuisine, r.PriceRange, r.Location)
}

func renderRestaurants(restaurants []contractx.Restaurant) string {
	if len(restaurants) == 0 {
		return "I couldn't find any restaurants matching your criteria. Would you like to try different search parameters?"
	}

	var b strings.Builder
	b.WriteString("Here are some restaurants that match your criteria:\n\n")
	for i, r := range restaurants {
		if i == renderCap {
			break
		}
		b.WriteString(restaurantLine(r))
	}
	if extra := len(restaurants) - renderCap; extra > 0 {
		fmt.Fprintf(&b, "\nAnd %d more options. Would you like to see more details about any of these restaurants?", extra)
	}
	return b.String()
}

func renderReservation(res *contractx.Reservation, data map[string]any) string {
	place, ok := data["restaurant_name"].(string)
	if !ok || place == "" {
		place = fmt.Sprintf("restaurant %d", res.RestaurantID)
	}
	return fmt.Sprintf("Great! I've made your reservation at %s for %s at %s for %d people. Your reservation ID is %d.",
		place, res.Date, res.Time, res.PartySize, res.ID)
}

func renderRecommendations(recommendations []contractx.Restaurant) string {
	if len(recommendations) == 0 {
		return "I couldn't find any recommendations based on your preferences. Would you like to try different criteria?"
	}

	var b strings.Builder
	b.WriteString("Based on your preferences, here are some restaurants you might enjoy:\n\n")
	for i, r := range recommendations {
		if i == renderCap {
			break
		}
		b.WriteString(restaurantLine(r))
	}
	return b.String()
}

func renderUserReservations(reservations []contractx.UserReservation) string {
	if len(reservations) == 0 {
		return "You don't have any active reservations at the moment."
	}

	var b strings.Builder
	b.WriteString("Here are your current reservations:\n\n")
	for _, r := range reservations {
		place := fmt.Sprintf("restaurant %d", r.RestaurantID)
		if r.Restaurant != nil {
			place = r.Restaurant.Name
		}
		fmt.Fprintf(&b, "- %s on %s at %s for %d people (Status: %s)\n", place, r.Date, r.Time, r.PartySize, r.Status)
	}
	return b.String()
}

func renderAvailability(available bool, data map[string]any) string {
	remaining, _ := data["remaining_capacity"].(int)
	total, _ := data["restaurant_capacity"].(int)
	if available {
		return fmt.Sprintf("Yes, there is availability for your requested time! The restaurant has %d of its %d seats open.", remaining, total)
	}
	return fmt.Sprintf("I'm sorry, but the restaurant is fully booked for that time. Only %d of its %d seats are open. Would you like to try a different time?", remaining, total)
}
