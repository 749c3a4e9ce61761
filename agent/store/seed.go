package store

import (
	"context"
	"fmt"

	contractx "github.com/tableside/concierge/agent/contract"
)

// SeedRestaurants is the demo catalog used by Seed.
var SeedRestaurants = []contractx.Restaurant{
	{
		Name:        "La Bella Italia",
		Cuisine:     "Italian",
		Location:    "Downtown",
		Address:     "123 Main St",
		Capacity:    80,
		OpeningTime: "11:00",
		ClosingTime: "23:00",
		PriceRange:  "$$$",
		Rating:      4.5,
		Features: map[string]bool{
			"parking":         true,
			"outdoor_seating": true,
			"bar":             true,
			"private_rooms":   true,
		},
		Menu: map[string][]contractx.MenuItem{
			"appetizers": {
				{Name: "Bruschetta", Price: 12},
				{Name: "Caprese Salad", Price: 14},
			},
			"main_courses": {
				{Name: "Spaghetti Carbonara", Price: 22},
				{Name: "Margherita Pizza", Price: 18},
			},
		},
	},
	{
		Name:        "Sakura Japanese",
		Cuisine:     "Japanese",
		Location:    "Midtown",
		Address:     "456 Oak Ave",
		Capacity:    60,
		OpeningTime: "12:00",
		ClosingTime: "22:00",
		PriceRange:  "$$$$",
		Rating:      4.8,
		Features: map[string]bool{
			"parking":       true,
			"sushi_bar":     true,
			"private_rooms": true,
		},
		Menu: map[string][]contractx.MenuItem{
			"sushi": {
				{Name: "Dragon Roll", Price: 18},
				{Name: "Salmon Nigiri", Price: 8},
			},
			"main_courses": {
				{Name: "Teriyaki Chicken", Price: 24},
				{Name: "Ramen", Price: 16},
			},
		},
	},
	{
		Name:        "Spice Garden",
		Cuisine:     "Indian",
		Location:    "Uptown",
		Address:     "789 Spice Lane",
		Capacity:    100,
		OpeningTime: "11:30",
		ClosingTime: "22:30",
		PriceRange:  "$$",
		Rating:      4.6,
		Features: map[string]bool{
			"parking":       true,
			"buffet":        true,
			"private_rooms": true,
			"catering":      true,
		},
		Menu: map[string][]contractx.MenuItem{
			"appetizers": {
				{Name: "Samosa", Price: 8},
				{Name: "Pakora", Price: 9},
			},
			"main_courses": {
				{Name: "Butter Chicken", Price: 20},
				{Name: "Vegetable Biryani", Price: 18},
			},
		},
	},
}

// Seed loads the demo restaurants and a demo user into an empty store.
// Restaurants already present (by name match on the first seed entry)
// are left alone so repeated startups stay idempotent.
func Seed(ctx context.Context, s contractx.Store) error {
	existing, err := s.ListRestaurants(ctx, contractx.RestaurantFilter{})
	if err != nil {
		return fmt.Errorf("seed: list restaurants: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, r := range SeedRestaurants {
		if _, err := s.AddRestaurant(ctx, r); err != nil {
			return fmt.Errorf("seed: add restaurant %q: %w", r.Name, err)
		}
	}

	if _, err := s.AddUser(ctx, contractx.User{
		Name:  "Demo Diner",
		Email: "demo@example.com",
		Phone: "555-0100",
	}); err != nil {
		return fmt.Errorf("seed: add demo user: %w", err)
	}
	return nil
}
