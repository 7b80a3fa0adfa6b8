package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(url string) *GeminiClient {
	cfg := DefaultGeminiConfig("test-key")
	cfg.BaseURL = url
	cfg.RetryDelay = 10 * time.Millisecond
	return NewGeminiClientWithConfig(cfg)
}

func geminiOK(text string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestCompleteWithSystem(t *testing.T) {
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(geminiOK("  Roll down to 50.  ")))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.CompleteWithSystem(context.Background(), "You are a TFT assistant.", "should I reroll?")
	if err != nil {
		t.Fatalf("CompleteWithSystem() error = %v", err)
	}
	if got != "Roll down to 50." {
		t.Fatalf("CompleteWithSystem() = %q", got)
	}
	if gotBody.SystemInstruction == nil || len(gotBody.SystemInstruction.Parts) == 0 {
		t.Fatal("system instruction not sent")
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "should I reroll?" {
		t.Fatalf("unexpected contents: %+v", gotBody.Contents)
	}
}

func TestCompleteRetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(geminiOK("ok")))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "ok" {
		t.Fatalf("Complete() = %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestCompleteGivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Complete(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "max retries exceeded") {
		t.Fatalf("expected max retries error, got %v", err)
	}
}

func TestCompleteNonRetryableStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad prompt"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Complete(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status 400 error, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("400 must not retry, got %d calls", n)
	}
}

func TestCompleteNoAPIKey(t *testing.T) {
	c := NewGeminiClient("")
	_, err := c.Complete(context.Background(), "hi")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestCompleteEmptyPrompt(t *testing.T) {
	c := NewGeminiClient("key")
	if _, err := c.Complete(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"parts shape", geminiOK("hello"), "hello", false},
		{
			name: "flat text shape",
			body: `{"candidates":[{"content":{"text":"flat"}}]}`,
			want: "flat",
		},
		{"api error", `{"error":{"code":500,"message":"boom"}}`, "", true},
		{"no candidates", `{"candidates":[]}`, "", true},
		{"garbage", `not json`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractContent([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractContent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("extractContent() = %q, want %q", got, tt.want)
			}
		})
	}
}
