// Package e2e contains an opt-in test against the real Gemini API.
//
// Required environment variables (test skips if absent):
//
//	GEMINI_API_KEY – Gemini API key
//
// Optional:
//
//	GEMINI_API_URL – alternative base URL (default: the public endpoint)
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/zhengjr9/gemini-relay/internal/config"
	"github.com/zhengjr9/gemini-relay/internal/gemini"
)

// requireEnv returns the value of an env var or skips the test if it is unset.
func requireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("env %s not set – skipping E2E test", key)
	}
	return v
}

func TestLiveResolve(t *testing.T) {
	apiKey := requireEnv(t, "GEMINI_API_KEY")

	baseURL := os.Getenv("GEMINI_API_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	client := gemini.NewClient(baseURL, 30*time.Second, os.Getenv("GEMINI_PROXY_URL"))
	resolver := gemini.NewResolver(client, apiKey, config.DefaultAPIVersions, config.DefaultModels)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	text, err := resolver.Resolve(ctx, "Reply with the single word: pong")
	if err != nil {
		t.Fatalf("live resolve failed: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty generated text")
	}
	t.Logf("live reply: %q", text)
}
