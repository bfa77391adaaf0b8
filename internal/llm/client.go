// Package llm wraps the Anthropic SDK for plan-generation calls.
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mintu3770/task-planner/internal/config"
	"github.com/mintu3770/task-planner/internal/plan"
)

// ModelOption is one selectable model.
type ModelOption struct {
	Name string // short name used on the command line
	ID   anthropic.Model
	Note string
}

// AvailableModels lists the known model identifiers, fastest first.
var AvailableModels = []ModelOption{
	{Name: "haiku", ID: anthropic.Model("claude-3-5-haiku-latest"), Note: "fastest"},
	{Name: "sonnet", ID: anthropic.ModelClaudeSonnet4_6, Note: "recommended"},
	{Name: "opus", ID: anthropic.Model("claude-opus-4-6"), Note: "most capable"},
}

// ResolveModel maps a short name to a model identifier. Unknown names are
// passed through untouched so raw model ids keep working.
func ResolveModel(name string) anthropic.Model {
	for _, m := range AvailableModels {
		if m.Name == name {
			return m.ID
		}
	}
	return anthropic.Model(name)
}

const initialBackoff = 500 * time.Millisecond

// Client performs the single outbound call of the pipeline: one prompt in,
// raw completion text out. The model identifier is fixed for the client's
// lifetime.
type Client struct {
	inner   anthropic.Client
	model   anthropic.Model
	tokens  int64
	timeout time.Duration
	retries int
}

// New creates a Client from the resolved configuration. Extra options are
// passed through to the SDK (tests use this to point at a local server).
func New(cfg *config.Config, opts ...option.RequestOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, plan.Errorf(plan.KindAuth, "%s not set", config.APIKeyEnv)
	}

	// The SDK retries 429/5xx on its own; disable that so the retry policy
	// lives in one place and a single attempt really is a single attempt.
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Client{
		inner:   anthropic.NewClient(opts...),
		model:   ResolveModel(cfg.Model),
		tokens:  int64(cfg.MaxTokens),
		timeout: cfg.Timeout,
		retries: cfg.Retries,
	}, nil
}

// Model returns the model identifier this client sends to.
func (c *Client) Model() string { return string(c.model) }

// Complete sends the prompt and returns the raw response text. A finite
// timeout is always enforced. By default a single attempt is made;
// configured retries apply to transport failures only, with exponential
// backoff.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", transportErr("request cancelled while waiting to retry", ctx.Err())
			}
			backoff *= 2
		}

		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !plan.IsKind(err, plan.KindTransport) {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.tokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	// Flatten text blocks
	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", plan.Errorf(plan.KindUpstream, "model returned an empty completion")
	}
	return text, nil
}

// classify maps SDK failures onto the pipeline error taxonomy: rejected
// credentials are auth errors, explicit service-side failures are
// upstream, everything else (network, timeout, remaining HTTP statuses)
// is transport.
func classify(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
			return &plan.Error{Kind: plan.KindAuth, Index: -1, Msg: "API key rejected", Err: err}
		case apierr.StatusCode >= 500:
			return &plan.Error{Kind: plan.KindUpstream, Index: -1, Msg: "model service failed", Err: err}
		default:
			return transportErr("request failed", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return transportErr("request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return transportErr("request cancelled", err)
	}
	return transportErr("request failed", err)
}

func transportErr(msg string, cause error) *plan.Error {
	return &plan.Error{Kind: plan.KindTransport, Index: -1, Msg: msg, Err: cause}
}
