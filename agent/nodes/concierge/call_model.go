package conciergenode

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	contractx "github.com/tableside/concierge/agent/contract"
	groqx "github.com/tableside/concierge/pkg/groq"
)

// The four fixed apologies for model-call failures. Raw transport
// errors never reach the user; template choice is keyed mechanically by
// failure category.
const (
	apologyNotConfigured = "I apologize, but I'm currently unable to process requests because the AI service is not properly configured. Please contact the system administrator to set up the required API key."
	apologyUnauthorized  = "I apologize, but I'm currently unable to process requests because the AI service authentication failed. Please contact the system administrator to check the API key configuration."
	apologyBadRequest    = "I apologize, but I'm having trouble understanding the request format. Please try rephrasing your request."
	apologyGeneric       = "I apologize, but I'm having trouble connecting to the AI service. Please try again later."
)

// CallModel runs the completion. A failed call resolves to one of the
// apology templates instead of an error so the pipeline always
// produces a reply.
func CallModel(ctx context.Context, in *GraphState, model contractx.ChatModel) (*GraphState, error) {
	text, err := model.Complete(ctx, in.System, in.Prompt)
	if err != nil {
		log.Warn().Err(err).Msg("model call failed, substituting apology")
		in.ModelText = apologyFor(err)
		return in, nil
	}
	in.ModelText = text
	return in, nil
}

func apologyFor(err error) string {
	switch {
	case errors.Is(err, groqx.ErrNotConfigured):
		return apologyNotConfigured
	case errors.Is(err, groqx.ErrUnauthorized):
		return apologyUnauthorized
	case errors.Is(err, groqx.ErrBadRequest):
		return apologyBadRequest
	default:
		return apologyGeneric
	}
}
