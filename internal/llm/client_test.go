package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mintu3770/task-planner/internal/config"
	"github.com/mintu3770/task-planner/internal/plan"
)

func TestResolveModel_ShortNames(t *testing.T) {
	for _, m := range AvailableModels {
		if got := ResolveModel(m.Name); got != m.ID {
			t.Errorf("expected %s -> %s, got %s", m.Name, m.ID, got)
		}
	}
}

func TestResolveModel_RawIDPassthrough(t *testing.T) {
	if got := ResolveModel("claude-3-opus-20240229"); string(got) != "claude-3-opus-20240229" {
		t.Errorf("raw ids should pass through, got %s", got)
	}
}

func testClient(t *testing.T, cfg *config.Config, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.APIKey = "sk-test"
	client, err := New(cfg, option.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(config.Default())
	if !plan.IsKind(err, plan.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestComplete_ReturnsRawText(t *testing.T) {
	client := testClient(t, config.Default(), func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{
			"id": "msg_test", "type": "message", "role": "assistant",
			"model": "claude-sonnet-4-6",
			"content": [{"type": "text", "text": "[{\"title\":\"A\"}]"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`)
	})

	text, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `[{"title":"A"}]` {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestComplete_EmptyCompletion(t *testing.T) {
	client := testClient(t, config.Default(), func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{
			"id": "msg_test", "type": "message", "role": "assistant",
			"model": "claude-sonnet-4-6",
			"content": [{"type": "text", "text": "   "}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`)
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !plan.IsKind(err, plan.KindUpstream) {
		t.Fatalf("expected upstream error for empty completion, got %v", err)
	}
}

func TestComplete_AuthRejected(t *testing.T) {
	client := testClient(t, config.Default(), func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusUnauthorized,
			`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !plan.IsKind(err, plan.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestComplete_ServiceFailure(t *testing.T) {
	client := testClient(t, config.Default(), func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusInternalServerError,
			`{"type":"error","error":{"type":"api_error","message":"internal server error"}}`)
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !plan.IsKind(err, plan.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestComplete_SingleAttemptByDefault(t *testing.T) {
	calls := 0
	client := testClient(t, config.Default(), func(w http.ResponseWriter, r *http.Request) {
		calls++
		jsonResponse(w, http.StatusTooManyRequests,
			`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !plan.IsKind(err, plan.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestComplete_RetriesTransportOnly(t *testing.T) {
	calls := 0
	cfg := config.Default()
	cfg.Retries = 2
	client := testClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			jsonResponse(w, http.StatusTooManyRequests,
				`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
			return
		}
		jsonResponse(w, http.StatusOK, `{
			"id": "msg_test", "type": "message", "role": "assistant",
			"model": "claude-sonnet-4-6",
			"content": [{"type": "text", "text": "[]"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`)
	})

	text, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "[]" {
		t.Errorf("unexpected text: %q", text)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestComplete_NoRetryOnAuth(t *testing.T) {
	calls := 0
	cfg := config.Default()
	cfg.Retries = 2
	client := testClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		calls++
		jsonResponse(w, http.StatusUnauthorized,
			`{"type":"error","error":{"type":"authentication_error","message":"nope"}}`)
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !plan.IsKind(err, plan.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("auth failures must not be retried, got %d attempts", calls)
	}
}

func TestComplete_Timeout(t *testing.T) {
	cfg := config.Default()
	cfg.Timeout = 50 * time.Millisecond
	client := testClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		jsonResponse(w, http.StatusOK, `{}`)
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !plan.IsKind(err, plan.KindTransport) {
		t.Fatalf("expected transport error on timeout, got %v", err)
	}
}
