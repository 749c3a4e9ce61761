package action

import contractx "github.com/tableside/concierge/agent/contract"

// Directive parameters arrive straight out of a JSON decode, so numbers
// are float64 and lists are []any. The helpers below normalize them.

func intArg(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func intArgDefault(params map[string]any, key string, fallback int) int {
	if n, ok := intArg(params, key); ok {
		return n
	}
	return fallback
}

func stringArg(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func stringsArg(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if list == "" {
			return nil
		}
		return []string{list}
	}
	return nil
}

func mapArg(params map[string]any, key string) map[string]any {
	m, _ := params[key].(map[string]any)
	return m
}

// userIDArg resolves the acting user: an explicit user_id parameter
// wins, otherwise the orchestrator-injected user_info block is
// consulted.
func userIDArg(params map[string]any) (int, bool) {
	if id, ok := intArg(params, "user_id"); ok {
		return id, true
	}
	if info := mapArg(params, UserInfoKey); info != nil {
		return intArg(info, "user_id")
	}
	return 0, false
}

func preferencesArg(raw map[string]any) contractx.Preferences {
	return contractx.Preferences{
		Cuisine:             stringsArg(raw["cuisine"]),
		PriceRange:          stringArg(raw, "price_range"),
		Location:            stringArg(raw, "location"),
		Occasion:            stringArg(raw, "occasion"),
		DietaryRestrictions: stringsArg(raw["dietary_restrictions"]),
	}
}
