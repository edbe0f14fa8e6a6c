package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/zhengjr9/gemini-relay/internal/errors"
)

// maxMessageLen bounds the raw (untrimmed) request message in bytes.
const maxMessageLen = 10000

const exhaustedMessage = "Failed to get response from Gemini API. Please check your API key and model availability."

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// Generator resolves one message to generated text. Satisfied by
// *gemini.Resolver.
type Generator interface {
	Resolve(ctx context.Context, message string) (string, error)
}

// Handler validates inbound chat messages, delegates to the resolver, and maps
// its outcome to a caller-facing response. Upstream failure detail stays in the
// logs; callers only ever see the validation messages or a generic 500.
type Handler struct {
	resolver Generator
}

// NewHandler constructs a Handler.
func NewHandler(resolver Generator) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		apierrors.WriteError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if len(req.Message) > maxMessageLen {
		apierrors.WriteError(w, http.StatusBadRequest, "Message is too long (max 10000 characters)")
		return
	}

	text, err := h.resolver.Resolve(r.Context(), req.Message)
	if err != nil {
		slog.Error("chat resolution failed", "error", err)
		if errors.Is(err, apierrors.ErrMissingAPIKey) {
			apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrMissingAPIKey.Error())
			return
		}
		apierrors.WriteError(w, http.StatusInternalServerError, exhaustedMessage)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ChatResponse{Response: text})
}
