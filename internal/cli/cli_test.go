package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newChatServer(t *testing.T, status int, body map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestRun_RoundTrip(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, map[string]string{"response": "pong"})
	defer srv.Close()

	var out, errOut strings.Builder
	in := strings.NewReader("hello\nexit\n")
	if err := Run(srv.URL, in, &out, &errOut); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(out.String(), "Bot: pong") {
		t.Errorf("expected bot reply in output, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Errorf("expected goodbye on exit, got %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("expected no errors, got %q", errOut.String())
	}
}

func TestRun_BlankLinesReprompt(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, map[string]string{"response": "pong"})
	defer srv.Close()

	var out, errOut strings.Builder
	in := strings.NewReader("\n   \nQUIT\n")
	if err := Run(srv.URL, in, &out, &errOut); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// One prompt per line read: two blanks plus the quit.
	if got := strings.Count(out.String(), "You: "); got != 3 {
		t.Errorf("expected 3 prompts, got %d in %q", got, out.String())
	}
	if strings.Contains(out.String(), "Bot:") {
		t.Error("blank lines must not be sent to the server")
	}
}

func TestRun_ServerErrorPrinted(t *testing.T) {
	srv := newChatServer(t, http.StatusInternalServerError, map[string]string{"error": "something broke"})
	defer srv.Close()

	var out, errOut strings.Builder
	in := strings.NewReader("hello\nexit\n")
	if err := Run(srv.URL, in, &out, &errOut); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(errOut.String(), "something broke") {
		t.Errorf("expected server error message, got %q", errOut.String())
	}
}

func TestRun_EOFEndsLoop(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, map[string]string{"response": "pong"})
	defer srv.Close()

	var out, errOut strings.Builder
	if err := Run(srv.URL, strings.NewReader(""), &out, &errOut); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}
