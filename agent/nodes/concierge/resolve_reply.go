package conciergenode

import (
	"context"

	"github.com/rs/zerolog/log"

	actionx "github.com/tableside/concierge/agent/action"
	contractx "github.com/tableside/concierge/agent/contract"
)

// ResolveReply decides the final text: when the model emitted a valid
// directive naming a known action, dispatch it and render the envelope;
// otherwise the model's raw text stands verbatim.
func ResolveReply(ctx context.Context, in *GraphState, registry contractx.ActionRegistry) (*GraphState, error) {
	d, ok := extractDirective(in.ModelText)
	if !ok {
		in.Reply = in.ModelText
		return in, nil
	}
	if !knownAction(registry, d.Tool) {
		// A directive naming an action outside the catalog is a no-op,
		// not a fault.
		log.Warn().Str("tool", d.Tool).Msg("directive names unknown action")
		in.Reply = in.ModelText
		return in, nil
	}

	params := make(map[string]any, len(d.Parameters)+1)
	for k, v := range d.Parameters {
		params[k] = v
	}
	params[actionx.UserInfoKey] = in.UserInfo

	env := registry.Execute(ctx, d.Tool, params)
	in.Reply = Render(env)
	return in, nil
}

func knownAction(registry contractx.ActionRegistry, name string) bool {
	for _, info := range registry.Catalog() {
		if info.Name == name {
			return true
		}
	}
	return false
}
