// Package llm talks to an OpenAI-compatible generative API: chat completions,
// web-search backed responses and image generation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/Kush-Singh-26/autopost/builder/config"
)

var (
	ErrNoAPIKey      = errors.New("llm: no API key configured")
	ErrEmptyResponse = errors.New("llm: empty response")
	ErrNoJSON        = errors.New("llm: no JSON found in response")
)

// Generator is the generative capability used by the pipeline stages.
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
	Browse(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code       int
	Body       string
	RetryAfter int // seconds, from the Retry-After header
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: API returned %d: %s", e.Code, e.Body)
}

// Temporary reports whether the request is worth repeating.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client implements Generator over HTTP.
type Client struct {
	cfg     config.LLMConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	// first retry delay, shortened in tests
	backoffInitial time.Duration
}

func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:            cfg,
		http:           &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		logger:         logger.With("component", "llm"),
		backoffInitial: time.Second,
	}
}

// post sends payload as JSON to path and decodes the answer into out,
// retrying transient failures with exponential backoff.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if c.cfg.APIKey == "" {
		return ErrNoAPIKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("llm: failed to marshal payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoffInitial
	b.MaxInterval = 30 * time.Second

	url := c.cfg.BaseURL + path
	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, c.do(ctx, url, body, out)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries)+1),
		backoff.WithMaxElapsedTime(c.cfg.Timeout*time.Duration(c.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, d time.Duration) {
			c.logger.Warn("request failed, retrying", "path", path, "attempt", attempt, "error", err, "wait", d)
		}),
	)
	return err
}

func (c *Client) do(ctx context.Context, url string, body []byte, out any) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	c.logger.Debug("response received", "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		serr := &StatusError{Code: resp.StatusCode, Body: truncate(string(data), 300)}
		if s, perr := strconv.Atoi(resp.Header.Get("Retry-After")); perr == nil && s > 0 {
			serr.RetryAfter = s
		}
		if !serr.Temporary() {
			return backoff.Permanent(serr)
		}
		if serr.RetryAfter > 0 {
			return backoff.RetryAfter(serr.RetryAfter)
		}
		return serr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("llm: failed to parse API response: %w", err))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
