package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"careercoach-backend/internal/llm"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second
)

// Config holds everything the client needs. The credential is injected here
// and validated lazily at the first Generate call, not at construction.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client implements llm.Client against the Generative Language API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a Gemini client. httpClient may be nil, in which case
// a default client with the configured timeout is used; tests inject an
// httptest-backed client instead.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		endpoint:   base + "/v1beta/models/" + url.PathEscape(model) + ":generateContent",
		httpClient: httpClient,
	}
}

type genPart struct {
	Text string `json:"text"`
}

type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type generationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type genRequest struct {
	Contents         []genContent      `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
}

type errResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate performs one generateContent call and returns the text verbatim.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	if c.apiKey == "" {
		return llm.Result{}, fmt.Errorf("%w: missing API key", llm.ErrAuthentication)
	}

	body := genRequest{
		Contents: []genContent{
			{Role: "user", Parts: []genPart{{Text: req.Prompt}}},
		},
	}
	if req.Params.Temperature != nil || req.Params.MaxOutputTokens > 0 {
		body.GenerationConfig = &generationConfig{
			Temperature:     req.Params.Temperature,
			MaxOutputTokens: req.Params.MaxOutputTokens,
		}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return llm.Result{}, classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Result{}, fmt.Errorf("%w: read response: %v", llm.ErrTransientNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return llm.Result{}, ClassifyStatus(resp.StatusCode, raw, resp.Header.Get("Retry-After"))
	}

	var parsed genResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llm.Result{}, &llm.UpstreamError{Status: resp.StatusCode, Message: "response parse: " + err.Error()}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return llm.Result{}, &llm.UpstreamError{Status: resp.StatusCode, Message: "response missing candidates"}
	}

	var b strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	text := b.String()
	if text == "" {
		return llm.Result{}, &llm.UpstreamError{Status: resp.StatusCode, Message: "response empty content"}
	}
	return llm.Result{Text: text}, nil
}

// ClassifyStatus maps a non-2xx response to the error taxonomy. Pure over
// (status, body, retryAfter) so it is testable without network access.
func ClassifyStatus(status int, body []byte, retryAfter string) error {
	msg := remoteMessage(body)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: http status %d: %s", llm.ErrAuthentication, status, msg)
	case http.StatusTooManyRequests:
		return &llm.RateLimitError{RetryAfter: parseRetryAfter(retryAfter)}
	default:
		return &llm.UpstreamError{Status: status, Message: msg}
	}
}

// classifyTransport treats every transport failure as transient; generation
// requests have no side effects on the caller, so a retry is always safe.
// Caller cancellation is passed through untouched.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: timeout: %v", llm.ErrTransientNetwork, err)
	}
	return fmt.Errorf("%w: %v", llm.ErrTransientNetwork, err)
}

// remoteMessage pulls the provider error message out of the body, falling
// back to the raw payload so nothing is lost for display.
func remoteMessage(body []byte) string {
	var parsed errResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}

func parseRetryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

var _ llm.Client = (*Client)(nil)
