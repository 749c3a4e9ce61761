package action

import "github.com/cloudwego/eino/schema"

// Action names. The catalog below and the dispatch table in New must
// agree exactly; New fails otherwise.
const (
	ActionSearchRestaurants     = "search_restaurants"
	ActionGetRestaurantDetails  = "get_restaurant_details"
	ActionCheckAvailability     = "check_availability"
	ActionMakeReservation       = "make_reservation"
	ActionGetRecommendations    = "get_recommendations"
	ActionCancelReservation     = "cancel_reservation"
	ActionGetUserReservations   = "get_user_reservations"
	ActionUpdateUserPreferences = "update_user_preferences"
)

// UserInfoKey is the reserved parameter the orchestrator injects so
// handlers can attribute actions to the caller.
const UserInfoKey = "user_info"

func catalog() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ActionSearchRestaurants,
			Desc: "Search for restaurants based on criteria like cuisine, location, price range",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"cuisine":     {Type: schema.String, Desc: "Cuisine to match, e.g. Italian"},
				"location":    {Type: schema.String, Desc: "Neighborhood or area to match"},
				"price_range": {Type: schema.String, Desc: "Price tier, one of $, $$, $$$, $$$$"},
				"features":    {Type: schema.Array, Desc: "Required amenity names, e.g. parking", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
			}),
		},
		{
			Name: ActionGetRestaurantDetails,
			Desc: "Get detailed information about a specific restaurant",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"restaurant_id": {Type: schema.Integer, Desc: "Restaurant id", Required: true},
			}),
		},
		{
			Name: ActionCheckAvailability,
			Desc: "Check table availability for a specific restaurant and time",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"restaurant_id": {Type: schema.Integer, Desc: "Restaurant id", Required: true},
				"date":          {Type: schema.String, Desc: "Date in YYYY-MM-DD format", Required: true},
				"time":          {Type: schema.String, Desc: "Time in 24-hour HH:MM format", Required: true},
				"party_size":    {Type: schema.Integer, Desc: "Number of guests, defaults to 2"},
			}),
		},
		{
			Name: ActionMakeReservation,
			Desc: "Make a reservation at a restaurant",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"restaurant_id":    {Type: schema.Integer, Desc: "Restaurant id", Required: true},
				"user_id":          {Type: schema.Integer, Desc: "User id", Required: true},
				"date":             {Type: schema.String, Desc: "Date in YYYY-MM-DD format", Required: true},
				"time":             {Type: schema.String, Desc: "Time in 24-hour HH:MM format", Required: true},
				"party_size":       {Type: schema.Integer, Desc: "Number of guests", Required: true},
				"special_requests": {Type: schema.String, Desc: "Free-text special requests"},
			}),
		},
		{
			Name: ActionGetRecommendations,
			Desc: "Get restaurant recommendations based on user preferences",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {Type: schema.Integer, Desc: "User whose stored preferences seed the query"},
				"preferences": {Type: schema.Object, Desc: "Ad hoc preference overrides", SubParams: map[string]*schema.ParameterInfo{
					"cuisine":     {Type: schema.String, Desc: "Preferred cuisine"},
					"location":    {Type: schema.String, Desc: "Preferred area"},
					"price_range": {Type: schema.String, Desc: "Preferred price tier"},
					"occasion":    {Type: schema.String, Desc: "Occasion, e.g. anniversary"},
				}},
			}),
		},
		{
			Name: ActionCancelReservation,
			Desc: "Cancel an existing reservation",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"reservation_id": {Type: schema.Integer, Desc: "Reservation id", Required: true},
			}),
		},
		{
			Name: ActionGetUserReservations,
			Desc: "Get all reservations for a user",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {Type: schema.Integer, Desc: "User id", Required: true},
			}),
		},
		{
			Name: ActionUpdateUserPreferences,
			Desc: "Update user preferences for better recommendations",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {Type: schema.Integer, Desc: "User id", Required: true},
				"preferences": {Type: schema.Object, Desc: "Replacement preference profile", Required: true, SubParams: map[string]*schema.ParameterInfo{
					"cuisine":              {Type: schema.Array, Desc: "Preferred cuisines", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
					"location":             {Type: schema.String, Desc: "Preferred area"},
					"price_range":          {Type: schema.String, Desc: "Preferred price tier"},
					"occasion":             {Type: schema.String, Desc: "Typical occasion"},
					"dietary_restrictions": {Type: schema.Array, Desc: "Dietary restrictions", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
				}},
			}),
		},
	}
}
