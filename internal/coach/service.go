package coach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careercoach-backend/internal/llm"
	"careercoach-backend/internal/prompt"
	"careercoach-backend/internal/shared/telemetry"
)

const defaultRetryBaseDelay = 300 * time.Millisecond

// Document is an uploaded document payload. Ephemeral: it lives for one
// RunFeature call and is never stored.
type Document struct {
	Data     []byte
	MimeType string
	FileName string
}

// Extractor is the document-text capability the service depends on, kept as
// an interface so the underlying parser is swappable.
type Extractor interface {
	ExtractText(data []byte, mimeType, fileName string) (string, error)
}

// Service sequences Ingestor -> Prompt Builder -> Generation Client for one
// feature request. It holds no per-request state.
type Service struct {
	LLM     llm.Client
	Extract Extractor
	Params  llm.Params

	// RetryCeiling bounds the server-requested rate-limit delay; above it
	// the retry is skipped. RetryBaseDelay is used when the server gives
	// no delay.
	RetryCeiling   time.Duration
	RetryBaseDelay time.Duration
}

// RunFeature executes one feature end to end. When a document is supplied
// its extracted text is injected as the resumeText field before prompt
// validation, so a zero-page document still fails field validation rather
// than reaching the network.
func (s *Service) RunFeature(ctx context.Context, kind prompt.Kind, fields map[string]string, doc *Document) (string, error) {
	merged := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}

	if doc != nil {
		text, err := s.Extract.ExtractText(doc.Data, doc.MimeType, doc.FileName)
		if err != nil {
			return "", fmt.Errorf("ingest %s: %w", doc.FileName, err)
		}
		merged[prompt.FieldResumeText] = text
	}

	p, err := prompt.Build(kind, merged)
	if err != nil {
		return "", err
	}

	return s.generate(ctx, kind, llm.Request{Prompt: p, Params: s.Params})
}

// generate calls the client, retrying at most once for transient failures.
func (s *Service) generate(ctx context.Context, kind prompt.Kind, req llm.Request) (string, error) {
	result, err := s.LLM.Generate(ctx, req)
	if err == nil {
		return result.Text, nil
	}

	delay, retryable := s.retryDelay(err)
	if !retryable {
		return "", err
	}

	telemetry.Info("llm.retry", map[string]any{
		"feature":  string(kind),
		"delay_ms": delay.Milliseconds(),
		"error":    err.Error(),
	})

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	result, err = s.LLM.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// retryDelay decides whether err is worth one retry and with what delay.
// Only rate-limit and transient-network failures qualify; a server delay
// above the ceiling disqualifies the retry.
func (s *Service) retryDelay(err error) (time.Duration, bool) {
	base := s.RetryBaseDelay
	if base <= 0 {
		base = defaultRetryBaseDelay
	}

	var rateErr *llm.RateLimitError
	if errors.As(err, &rateErr) {
		delay := rateErr.RetryAfter
		if delay <= 0 {
			delay = base
		}
		if s.RetryCeiling > 0 && delay > s.RetryCeiling {
			return 0, false
		}
		return delay, true
	}

	if errors.Is(err, llm.ErrTransientNetwork) {
		return base, true
	}

	return 0, false
}
