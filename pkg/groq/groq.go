// Package groq is the outbound language-model client. Failures come
// back as typed errors so the orchestration layer can pick the right
// user-facing apology without ever seeing transport detail.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotConfigured = errors.New("groq: api key not configured")
	ErrUnauthorized  = errors.New("groq: authentication failed")
	ErrBadRequest    = errors.New("groq: request rejected")
	ErrUnreachable   = errors.New("groq: service unreachable")
)

type Config struct {
	BaseURL             string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey              string        `envconfig:"API_KEY" split_words:"true"`
	Model               string        `envconfig:"MODEL" split_words:"true" default:"llama-3.1-8b-instant"`
	MaxCompletionTokens int64         `envconfig:"MAX_COMPLETION_TOKENS" split_words:"true" default:"500"`
	Temperature         float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout             time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type Client struct {
	cfg Config
	sdk openaisdk.Client
}

func New(cfg Config, extra ...option.RequestOption) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	opts = append(opts, extra...)

	return &Client{cfg: cfg, sdk: openaisdk.NewClient(opts...)}
}

// Complete runs one chat completion bounded by the configured timeout.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.cfg.Model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(system),
			openaisdk.UserMessage(prompt),
		},
		Temperature: openaisdk.Float(c.cfg.Temperature),
		MaxTokens:   openaisdk.Int(c.cfg.MaxCompletionTokens),
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnreachable)
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apierr *openaisdk.Error
	if errors.As(err, &apierr) {
		log.Error().Int("status", apierr.StatusCode).Msg("completion request failed")
		switch apierr.StatusCode {
		case 401, 403:
			return fmt.Errorf("%w: status %d", ErrUnauthorized, apierr.StatusCode)
		case 400, 422:
			return fmt.Errorf("%w: status %d", ErrBadRequest, apierr.StatusCode)
		default:
			return fmt.Errorf("%w: status %d", ErrUnreachable, apierr.StatusCode)
		}
	}
	log.Error().Err(err).Msg("completion transport failed")
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
