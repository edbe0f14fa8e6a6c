package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoGeneratedText is returned when a 2xx response decodes but carries no
// candidate text to extract.
var ErrNoGeneratedText = errors.New("response contained no generated text")

// TransportError wraps a network-level failure (connection refused, DNS,
// timeout) for one candidate attempt.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "send request: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ParseError wraps a 2xx response whose body could not be decoded into the
// expected generateContent schema.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "decode response: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// UpstreamError is a non-2xx response from the Gemini API. Code, Status and
// Message are populated when the body decoded as the structured error schema;
// otherwise Raw holds the body text as-is.
type UpstreamError struct {
	HTTPStatus int
	Code       int
	Status     string
	Message    string
	Raw        string
}

func (e *UpstreamError) Error() string {
	if e.Status != "" || e.Message != "" {
		return fmt.Sprintf("gemini %s (%d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("gemini HTTP %d: %s", e.HTTPStatus, e.Raw)
}

// Client issues generateContent requests against one Gemini-compatible base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client with the given base URL, per-request timeout,
// and optional proxy URL. proxyURL may be empty to use the environment proxy.
func NewClient(baseURL string, timeout time.Duration, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// GenerateContent performs one generateContent attempt for the given candidate
// and returns the first candidate's first part's text. The message is sent
// verbatim as a single-turn content block.
func (c *Client) GenerateContent(ctx context.Context, cand Candidate, apiKey, message string) (string, error) {
	body, err := json.Marshal(GenerateContentRequest{
		Contents: []Content{{Parts: []Part{{Text: message}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		c.baseURL, cand.APIVersion, cand.Model, url.QueryEscape(apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The body is single-consume: buffer it first, then try the
		// structured decode against the buffer.
		raw, _ := io.ReadAll(resp.Body)
		var upstream errorResponse
		if json.Unmarshal(raw, &upstream) == nil && upstream.Error.Status != "" {
			return "", &UpstreamError{
				HTTPStatus: resp.StatusCode,
				Code:       upstream.Error.Code,
				Status:     upstream.Error.Status,
				Message:    upstream.Error.Message,
			}
		}
		return "", &UpstreamError{
			HTTPStatus: resp.StatusCode,
			Raw:        strings.TrimSpace(string(raw)),
		}
	}

	var result GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ParseError{Err: err}
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &ParseError{Err: ErrNoGeneratedText}
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
