package gemini

import (
	"context"
	"errors"
	"log/slog"

	apierrors "github.com/zhengjr9/gemini-relay/internal/errors"
)

// Candidate is one (api-version, model) pair to attempt against the API.
type Candidate struct {
	APIVersion string
	Model      string
}

// BuildCandidates returns the Cartesian product of the two ordered lists, with
// the api-version varying slower than the model. The order is the attempt
// priority: earlier entries win.
func BuildCandidates(versions, models []string) []Candidate {
	out := make([]Candidate, 0, len(versions)*len(models))
	for _, v := range versions {
		for _, m := range models {
			out = append(out, Candidate{APIVersion: v, Model: m})
		}
	}
	return out
}

// Resolver sweeps the candidate list in priority order until one attempt
// yields generated text. Model/version availability upstream is unreliable,
// so per-candidate failures are logged and skipped rather than surfaced.
type Resolver struct {
	client     *Client
	apiKey     string
	candidates []Candidate
}

// NewResolver builds a Resolver over the Cartesian product of versions and
// models. The candidate set is fixed at construction.
func NewResolver(client *Client, apiKey string, versions, models []string) *Resolver {
	return &Resolver{
		client:     client,
		apiKey:     apiKey,
		candidates: BuildCandidates(versions, models),
	}
}

// attempt records one failed candidate for the diagnostic log.
type attempt struct {
	candidate Candidate
	err       error
}

// Resolve returns the first successful generation for message, or
// apierrors.ErrMissingAPIKey / apierrors.ErrExhausted. The message is passed
// through verbatim; validation belongs to the caller.
func (r *Resolver) Resolve(ctx context.Context, message string) (string, error) {
	if r.apiKey == "" {
		return "", apierrors.ErrMissingAPIKey
	}

	attempts := make([]attempt, 0, len(r.candidates))
	for _, cand := range r.candidates {
		text, err := r.client.GenerateContent(ctx, cand, r.apiKey, message)
		if err == nil {
			slog.Info("generation succeeded",
				"api_version", cand.APIVersion,
				"model", cand.Model,
				"failed_attempts", len(attempts),
			)
			return text, nil
		}
		attempts = append(attempts, attempt{candidate: cand, err: err})
		logAttempt(cand, err)
	}

	if len(attempts) > 0 {
		last := attempts[len(attempts)-1]
		slog.Error("all candidates failed",
			"attempts", len(attempts),
			"last_api_version", last.candidate.APIVersion,
			"last_model", last.candidate.Model,
			"last_error", last.err,
		)
	} else {
		slog.Error("all candidates failed", "attempts", 0)
	}
	return "", apierrors.ErrExhausted
}

// logAttempt emits one diagnostic line per failed candidate. The resolver
// swallows these errors from its return value, so the log is the only place
// an operator can see which candidates failed and why.
func logAttempt(cand Candidate, err error) {
	var upstream *UpstreamError
	var parse *ParseError
	switch {
	case errors.As(err, &upstream) && upstream.Status != "":
		slog.Warn("candidate rejected by upstream",
			"api_version", cand.APIVersion,
			"model", cand.Model,
			"code", upstream.Code,
			"status", upstream.Status,
			"message", upstream.Message,
		)
	case errors.As(err, &upstream):
		slog.Warn("candidate rejected by upstream",
			"api_version", cand.APIVersion,
			"model", cand.Model,
			"http_status", upstream.HTTPStatus,
			"body", upstream.Raw,
		)
	case errors.As(err, &parse):
		slog.Warn("candidate response unusable",
			"api_version", cand.APIVersion,
			"model", cand.Model,
			"error", err,
		)
	default:
		slog.Warn("candidate unreachable",
			"api_version", cand.APIVersion,
			"model", cand.Model,
			"error", err,
		)
	}
}
