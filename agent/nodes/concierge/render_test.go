package conciergenode

import (
	"strings"
	"testing"

	contractx "github.com/tableside/concierge/agent/contract"
)

func sampleRestaurants(n int) []contractx.Restaurant {
	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	out := make([]contractx.Restaurant, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, contractx.Restaurant{
			ID: i + 1, Name: names[i], Cuisine: "Thai", PriceRange: "$$", Location: "Riverside",
		})
	}
	return out
}

func TestRenderErrorEnvelope(t *testing.T) {
	t.Parallel()
	got := Render(contractx.ErrorEnvelope("Restaurant not found"))
	want := "I apologize, but I encountered an error: Restaurant not found"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmptyRestaurantsIsCanned(t *testing.T) {
	t.Parallel()
	got := Render(contractx.SuccessEnvelope(map[string]any{"restaurants": []contractx.Restaurant{}}))
	want := "I couldn't find any restaurants matching your criteria. Would you like to try different search parameters?"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderRestaurantsCapsAtThreeWithRemainder(t *testing.T) {
	t.Parallel()
	got := Render(contractx.SuccessEnvelope(map[string]any{"restaurants": sampleRestaurants(5)}))

	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		if !strings.Contains(got, name) {
			t.Errorf("output missing %s:\n%s", name, got)
		}
	}
	if strings.Contains(got, "Delta") {
		t.Errorf("output lists more than three restaurants:\n%s", got)
	}
	if !strings.Contains(got, "And 2 more options") {
		t.Errorf("output missing remainder count:\n%s", got)
	}
	if !strings.Contains(got, "- Alpha (Thai): $$ in Riverside") {
		t.Errorf("line format wrong:\n%s", got)
	}
}

func TestRenderReservationConfirmation(t *testing.T) {
	t.Parallel()
	got := Render(contractx.SuccessEnvelope(map[string]any{
		"reservation_id":  7,
		"restaurant_name": "Sakura Japanese",
		"reservation": &contractx.Reservation{
			ID: 7, RestaurantID: 2, Date: "2026-09-12", Time: "19:00", PartySize: 4,
		},
	}))
	want := "Great! I've made your reservation at Sakura Japanese for 2026-09-12 at 19:00 for 4 people. Your reservation ID is 7."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderRecommendationsOwnEmptyMessage(t *testing.T) {
	t.Parallel()
	got := Render(contractx.SuccessEnvelope(map[string]any{"recommendations": []contractx.Restaurant{}}))
	if !strings.Contains(got, "recommendations based on your preferences") {
		t.Errorf("got %q", got)
	}

	got = Render(contractx.SuccessEnvelope(map[string]any{"recommendations": sampleRestaurants(4)}))
	if !strings.HasPrefix(got, "Based on your preferences") {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "Delta") {
		t.Errorf("recommendations not capped at three:\n%s", got)
	}
}

func TestRenderUserReservations(t *testing.T) {
	t.Parallel()
	got := Render(contractx.SuccessEnvelope(map[string]any{"reservations": []contractx.UserReservation{}}))
	if got != "You don't have any active reservations at the moment." {
		t.Errorf("got %q", got)
	}

	got = Render(contractx.SuccessEnvelope(map[string]any{"reservations": []contractx.UserReservation{
		{
			Reservation: contractx.Reservation{ID: 1, RestaurantID: 3, Date: "2026-09-12", Time: "18:00", PartySize: 2, Status: contractx.StatusConfirmed},
			Restaurant:  &contractx.Restaurant{ID: 3, Name: "Spice Garden"},
		},
		{
			Reservation: contractx.Reservation{ID: 2, RestaurantID: 9, Date: "2026-09-13", Time: "20:00", PartySize: 3, Status: contractx.StatusConfirmed},
		},
	}}))
	if !strings.Contains(got, "- Spice Garden on 2026-09-12 at 18:00 for 2 people (Status: confirmed)") {
		t.Errorf("joined line wrong:\n%s", got)
	}
	if !strings.Contains(got, "- restaurant 9 on 2026-09-13") {
		t.Errorf("missing-restaurant fallback wrong:\n%s", got)
	}
}

func TestRenderAvailabilityCarriesFigures(t *testing.T) {
	t.Parallel()
	got := Render(contractx.SuccessEnvelope(map[string]any{
		"available": true, "remaining_capacity": 12, "restaurant_capacity": 80,
	}))
	if !strings.Contains(got, "12") || !strings.Contains(got, "80") {
		t.Errorf("available=true output missing figures: %q", got)
	}

	got = Render(contractx.SuccessEnvelope(map[string]any{
		"available": false, "remaining_capacity": 1, "restaurant_capacity": 4,
	}))
	if !strings.Contains(got, "Only 1 of its 4 seats are open") {
		t.Errorf("available=false output missing figures: %q", got)
	}
}

func TestRenderGenericAcknowledgment(t *testing.T) {
	t.Parallel()
	got := Render(contractx.SuccessEnvelope(map[string]any{"restaurant": &contractx.Restaurant{ID: 1}}))
	if got != "I've processed your request successfully. Is there anything else you'd like to know?" {
		t.Errorf("got %q", got)
	}

	got = Render(contractx.SuccessMessage("Preferences updated successfully"))
	if !strings.Contains(got, "processed your request successfully") {
		t.Errorf("got %q", got)
	}
}
