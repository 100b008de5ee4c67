package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spektr-org/datasynth/engine"
)

// ============================================================================
// HTTP CLIENT — Service implementation over net/http
// ============================================================================
// No retries and no client-side deadline unless Config.Timeout is set. The
// caller's context is honoured.
// ============================================================================

// DefaultBaseURL is where the generation service listens by default.
const DefaultBaseURL = "http://localhost:8000"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 32 << 20

// Config configures a Client.
type Config struct {
	BaseURL    string        // service root (default: DefaultBaseURL)
	Timeout    time.Duration // per-call timeout; 0 means none
	HTTPClient *http.Client  // optional; overrides Timeout
}

// Client calls the remote service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var _ Service = (*Client)(nil)

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: base,
		http:    hc,
		logger:  log.With().Str("component", "remote").Str("base_url", base).Logger(),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SuggestSchema calls the suggestion endpoint for source.
func (c *Client) SuggestSchema(ctx context.Context, source Source, description string) (*Suggestion, error) {
	endpoint := c.baseURL + source.Path() + "?" + url.Values{"description": {description}}.Encode()

	body, err := c.post(ctx, source.Op(), endpoint, nil)
	if err != nil {
		return nil, err
	}

	s, err := ParseSuggestion(body)
	if err != nil {
		return nil, c.fail(source.Op(), &CallError{Op: source.Op(), Body: truncate(string(body), 200), Err: err})
	}
	callsTotal.WithLabelValues(source.Op(), "ok").Inc()
	c.logger.Info().Str("op", source.Op()).Int("fields", len(s.Fields)).Msg("schema suggested")
	return s, nil
}

// Generate calls POST /generate.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (engine.Dataset, error) {
	if req.Rows <= 0 {
		req.Rows = DefaultRows
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.post(ctx, OpGenerate, c.baseURL+"/generate", payload)
	if err != nil {
		return nil, err
	}

	rows, err := ParseRows(body)
	if err != nil {
		return nil, c.fail(OpGenerate, &CallError{Op: OpGenerate, Body: truncate(string(body), 200), Err: err})
	}
	callsTotal.WithLabelValues(OpGenerate, "ok").Inc()
	c.logger.Info().Str("op", OpGenerate).Int("rows", len(rows)).Msg("dataset generated")
	return rows, nil
}

// post sends a POST and returns the body of a 2xx response. Failures are
// counted here; successes are counted by the caller once the body decodes.
func (c *Client) post(ctx context.Context, op, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return nil, c.fail(op, &CallError{Op: op, Err: err})
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	callDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, c.fail(op, &CallError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(op, &CallError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(op, &CallError{Op: op, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)})
	}

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("bytes", len(body)).
		Msg("remote call")
	return body, nil
}

func (c *Client) fail(op string, err *CallError) error {
	callsTotal.WithLabelValues(op, "error").Inc()
	c.logger.Warn().Err(err).Str("op", op).Int("status", err.StatusCode).Msg("remote call failed")
	return err
}
