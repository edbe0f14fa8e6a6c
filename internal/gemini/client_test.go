package gemini_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zhengjr9/gemini-relay/internal/gemini"
	"github.com/zhengjr9/gemini-relay/test/testutil"
)

func newClient(t *testing.T, mock *testutil.MockGemini) *gemini.Client {
	t.Helper()
	return gemini.NewClient(mock.URL(), 5*time.Second, "")
}

var testCandidate = gemini.Candidate{APIVersion: "v1beta", Model: "model-a"}

func TestGenerateContent_MessageSentVerbatim(t *testing.T) {
	mock := testutil.NewMockGemini("ok")
	defer mock.Close()

	message := "  hello\nworld \"quoted\" 你好  "
	if _, err := newClient(t, mock).GenerateContent(context.Background(), testCandidate, testAPIKey, message); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	contents, _ := mock.LastRequest["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("expected a single content block, got %v", mock.LastRequest)
	}
	parts := contents[0].(map[string]any)["parts"].([]any)
	if got := parts[0].(map[string]any)["text"].(string); got != message {
		t.Errorf("message was transformed in transit:\n got  %q\n want %q", got, message)
	}
}

func TestGenerateContent_StructuredError(t *testing.T) {
	mock := testutil.NewMockGemini("ok")
	defer mock.Close()
	mock.Script("v1beta", "model-a", testutil.APIError(429, 429, "RESOURCE_EXHAUSTED", "quota"))

	_, err := newClient(t, mock).GenerateContent(context.Background(), testCandidate, testAPIKey, "hi")
	var upstream *gemini.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Code != 429 || upstream.Status != "RESOURCE_EXHAUSTED" || upstream.Message != "quota" {
		t.Errorf("structured fields not decoded: %+v", upstream)
	}
}

func TestGenerateContent_UnstructuredError(t *testing.T) {
	mock := testutil.NewMockGemini("ok")
	defer mock.Close()
	mock.Script("v1beta", "model-a", testutil.RawError(503, "<html>bad gateway</html>"))

	_, err := newClient(t, mock).GenerateContent(context.Background(), testCandidate, testAPIKey, "hi")
	var upstream *gemini.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.HTTPStatus != 503 || upstream.Raw != "<html>bad gateway</html>" {
		t.Errorf("raw fields not preserved: %+v", upstream)
	}
	if upstream.Status != "" {
		t.Errorf("expected no structured status, got %q", upstream.Status)
	}
}

func TestGenerateContent_TransportError(t *testing.T) {
	mock := testutil.NewMockGemini("ok")
	defer mock.Close()
	mock.Script("v1beta", "model-a", testutil.Drop())

	_, err := newClient(t, mock).GenerateContent(context.Background(), testCandidate, testAPIKey, "hi")
	var transport *gemini.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestGenerateContent_MalformedSuccessBody(t *testing.T) {
	mock := testutil.NewMockGemini("ok")
	defer mock.Close()
	mock.Script("v1beta", "model-a", testutil.Malformed(`{"candidates": "nope"}`))

	_, err := newClient(t, mock).GenerateContent(context.Background(), testCandidate, testAPIKey, "hi")
	var parse *gemini.ParseError
	if !errors.As(err, &parse) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestGenerateContent_EmptyTextIsSuccess(t *testing.T) {
	mock := testutil.NewMockGemini("")
	defer mock.Close()

	text, err := newClient(t, mock).GenerateContent(context.Background(), testCandidate, testAPIKey, "hi")
	if err != nil {
		t.Fatalf("expected success for present-but-empty text, got %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}
