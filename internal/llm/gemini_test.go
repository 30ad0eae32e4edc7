package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legal-publication-bot/internal/models"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*GeminiProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := NewGeminiProvider(models.GeminiConfig{
		APIKey:      "test-key",
		Model:       "gemini-2.5-flash",
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	provider.baseURL = server.URL
	return provider, server
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest

	provider, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": `{"cliente": "Fulano"}`}},
				}},
			},
		})
	})

	reply, err := provider.Generate(context.Background(), "analise a publicação")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if reply != `{"cliente": "Fulano"}` {
		t.Errorf("Generate() = %q", reply)
	}
	if gotPath != "/gemini-2.5-flash:generateContent" {
		t.Errorf("Unexpected path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("Expected API key in query, got %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || !strings.Contains(gotReq.Contents[0].Parts[0].Text, "analise") {
		t.Errorf("Prompt not forwarded: %+v", gotReq)
	}
	if gotReq.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("Expected JSON response mime type, got %q", gotReq.GenerationConfig.ResponseMimeType)
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	provider, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	if _, err := provider.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for empty candidates")
	}
}

func TestGeminiGenerate_HTTPError(t *testing.T) {
	provider, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"message": "API key invalid"}}`))
	})

	_, err := provider.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("Error should carry the status code, got: %v", err)
	}
}

func TestGeminiPing_NoKey(t *testing.T) {
	provider := NewGeminiProvider(models.GeminiConfig{Model: "gemini-2.5-flash"})
	if err := provider.Ping(context.Background()); err == nil {
		t.Error("Expected error when API key is missing")
	}
}
