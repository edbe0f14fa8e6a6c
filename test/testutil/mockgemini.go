package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ScriptedResponse describes how the mock answers one (api-version, model) pair.
type ScriptedResponse struct {
	// StatusCode and Body are written verbatim when Body is non-empty.
	StatusCode int
	Body       string
	// Text generates a well-formed generateContent success body.
	Text string
	// DropConnection closes the TCP connection without writing a response,
	// simulating a transport failure.
	DropConnection bool
}

// Success scripts a 200 with a well-formed body carrying text.
func Success(text string) ScriptedResponse {
	return ScriptedResponse{Text: text}
}

// APIError scripts a non-2xx with the structured Gemini error body.
func APIError(httpStatus, code int, status, message string) ScriptedResponse {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "status": status, "message": message},
	})
	return ScriptedResponse{StatusCode: httpStatus, Body: string(body)}
}

// RawError scripts a non-2xx with an unstructured body.
func RawError(httpStatus int, body string) ScriptedResponse {
	return ScriptedResponse{StatusCode: httpStatus, Body: body}
}

// Malformed scripts a 200 whose body does not decode as the success schema.
func Malformed(body string) ScriptedResponse {
	return ScriptedResponse{StatusCode: http.StatusOK, Body: body}
}

// Drop scripts a dropped connection.
func Drop() ScriptedResponse {
	return ScriptedResponse{DropConnection: true}
}

// MockGemini is an httptest.Server that simulates the Gemini generateContent
// endpoint across api versions and models, recording the order of attempts.
type MockGemini struct {
	Server *httptest.Server

	mu        sync.Mutex
	attempts  []string
	responses map[string]ScriptedResponse
	fallback  ScriptedResponse

	// LastAPIKey is the key query parameter of the most recent request.
	LastAPIKey string
	// LastRequest captures the most recent request body parsed.
	LastRequest map[string]any
}

// NewMockGemini creates and starts a mock upstream whose unscripted candidates
// answer with a success body carrying defaultText.
func NewMockGemini(defaultText string) *MockGemini {
	m := &MockGemini{
		responses: map[string]ScriptedResponse{},
		fallback:  Success(defaultText),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Script sets the response for one (api-version, model) pair.
func (m *MockGemini) Script(version, model string, resp ScriptedResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[version+"/"+model] = resp
}

// Attempts returns the "version/model" keys of all requests received, in order.
func (m *MockGemini) Attempts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.attempts))
	copy(out, m.attempts)
	return out
}

// URL returns the base URL of the mock server.
func (m *MockGemini) URL() string {
	return m.Server.URL
}

// Close shuts down the mock server.
func (m *MockGemini) Close() {
	m.Server.Close()
}

func (m *MockGemini) handle(w http.ResponseWriter, r *http.Request) {
	version, model, ok := parseGeneratePath(r.URL.Path)
	if !ok || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	key := version + "/" + model

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	m.mu.Lock()
	m.attempts = append(m.attempts, key)
	m.LastAPIKey = r.URL.Query().Get("key")
	m.LastRequest = body
	resp, scripted := m.responses[key]
	if !scripted {
		resp = m.fallback
	}
	m.mu.Unlock()

	if resp.DropConnection {
		hj, ok := w.(http.Hijacker)
		if !ok {
			panic("mock gemini: response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			panic(err)
		}
		conn.Close()
		return
	}

	if resp.Body != "" {
		status := resp.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, resp.Body)
		return
	}

	success := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": resp.Text}},
				},
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(success)
}

// parseGeneratePath extracts version and model from
// "/{version}/models/{model}:generateContent".
func parseGeneratePath(path string) (version, model string, ok bool) {
	rest, found := strings.CutSuffix(path, ":generateContent")
	if !found {
		return "", "", false
	}
	parts := strings.Split(strings.TrimPrefix(rest, "/"), "/")
	if len(parts) != 3 || parts[1] != "models" || parts[0] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}
