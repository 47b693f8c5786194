// Package analysis is the HTTP client for the remote pitch analysis service.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/nakachan-ing/pitch-cli/internal/model"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	AnalyzePath     = "/analyze"
	MicroGrantsPath = "/api/microgrants"

	// maxErrorBody caps how much of a failed response ends up in an error.
	maxErrorBody = 512
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithMaxRetries sets how many times a transport failure is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the delay before the first retry; it doubles per attempt.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 1,
		backoff:    100 * time.Millisecond,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze submits the project and returns the comparison result.
func (c *Client) Analyze(ctx context.Context, data model.ProjectData) (*model.AnalysisResult, error) {
	body, err := c.post(ctx, AnalyzePath, data)
	if err != nil {
		return nil, err
	}

	var result model.AnalysisResult
	if err := decode(body, analyzeSchema, &result); err != nil {
		return nil, err
	}
	if result.Analogs == nil {
		result.Analogs = []model.Analog{}
	}

	c.logger.Info("analysis received",
		zap.Int("analogs", len(result.Analogs)),
		zap.Int("recommendations", len(result.Recommendations)),
		zap.String("timestamp", result.AnalysisTimestamp))
	return &result, nil
}

// MicroGrants asks the service for grant suggestions matching the project.
func (c *Client) MicroGrants(ctx context.Context, data model.ProjectData) ([]model.GrantSuggestion, error) {
	body, err := c.post(ctx, MicroGrantsPath, data)
	if err != nil {
		return nil, err
	}

	var resp model.GrantResponse
	if err := decode(body, grantsSchema, &resp); err != nil {
		return nil, err
	}
	if resp.Grants == nil {
		resp.Grants = []model.GrantSuggestion{}
	}

	c.logger.Info("grant suggestions received", zap.Int("grants", len(resp.Grants)))
	return resp.Grants, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	requestID := uuid.New().String()
	log := c.logger.With(zap.String("endpoint", path), zap.String("request_id", requestID))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			log.Debug("retrying request", zap.Int("attempt", attempt), zap.Duration("wait", wait))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
			}
		}

		body, err := c.do(ctx, path, requestID, raw)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Warn("request failed", zap.Int("attempt", attempt), zap.Error(err))

		if !Retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, path, requestID string, raw []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{Endpoint: path, Code: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

// decode validates body against schema and then fills out, using the json
// tag names for the mapping.
func decode(body []byte, schema *gojsonschema.Schema, out interface{}) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validate(schema, doc); err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
