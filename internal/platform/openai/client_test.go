package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

const okBody = `{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"hello "},{"type":"output_text","text":"there"}]}]}`

func TestGenerateRetriesAndJoinsText(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" || r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("unexpected request %s auth=%q", r.URL.Path, r.Header.Get("Authorization"))
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req responsesRequest
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &req)
		if len(req.Input) != 2 || req.Input[0].Role != "system" || req.MaxOutputTokens != 200 {
			t.Errorf("request=%+v", req)
		}
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: 2})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	text, err := c.Generate(context.Background(), []Block{{Role: "system", Text: "s"}, {Text: "u"}}, Options{MaxLength: 200})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "hello there" || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("Generate=%q calls=%d", text, calls)
	}
}

func TestGenerateDropsRejectedTemperature(t *testing.T) {
	var withTemp int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req responsesRequest
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &req)
		if req.Temperature != nil {
			atomic.AddInt32(&withTemp, 1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"Unsupported parameter: 'temperature' is not supported with this model."}}`)
			return
		}
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	c, _ := NewClient(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL})
	temp := 0.3
	for i := 0; i < 2; i++ {
		if _, err := c.Generate(context.Background(), []Block{{Text: "u"}}, Options{Temperature: &temp}); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}
	if atomic.LoadInt32(&withTemp) != 1 {
		t.Fatalf("temperature sent %d times, want 1", withTemp)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.Nop(), Config{}); err == nil {
		t.Fatalf("NewClient without key expected error")
	}
}
