package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient("test-key", "gemma-3-12b-it", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv
}

func TestGenerateSuccess(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Hello "},{"text":"world"}]}}]}`))
	})

	out, err := client.Generate(context.Background(), "prompt text", "system text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hello world" {
		t.Fatalf("output = %q", out)
	}
	if gotPath != "/v1beta/models/gemma-3-12b-it:generateContent" {
		t.Fatalf("path = %q", gotPath)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "prompt text" {
		t.Fatalf("request contents = %+v", gotBody.Contents)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "system text" {
		t.Fatalf("system instruction = %+v", gotBody.SystemInstruction)
	}
}

func TestGenerateOmitsEmptyInstruction(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.SystemInstruction != nil {
			t.Error("empty instruction must be omitted")
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})
	if _, err := client.Generate(context.Background(), "p", "  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota exceeded"}}`))
	})

	_, err := client.Generate(context.Background(), "p", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !llm.IsModelError(err) {
		t.Fatalf("expected ModelError, got %T", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(err.Error(), "gemini/gemma-3-12b-it") {
		t.Fatalf("error should name the provider: %v", err)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})
	if _, err := client.Generate(context.Background(), "p", ""); !llm.IsModelError(err) {
		t.Fatalf("expected ModelError, got %v", err)
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	if _, err := client.Generate(context.Background(), "p", ""); !llm.IsModelError(err) {
		t.Fatalf("expected ModelError, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "model"); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatal("expected error for missing model")
	}
}
