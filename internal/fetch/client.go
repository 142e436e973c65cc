// Package fetch performs GET requests against JSON providers with a bounded,
// fixed-delay retry policy.
//
// Every provider call in the module goes through Client.Get. Adapters in
// internal/api only choose the endpoint and parameters.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-times/internal/metrics"
)

const (
	// DefaultMaxAttempts is the total number of attempts, including the first.
	DefaultMaxAttempts = 3
	// DefaultDelay is the fixed wait between attempts.
	DefaultDelay = 1000 * time.Millisecond
)

var (
	// ErrUnreachable is returned once every attempt failed with a transient error.
	ErrUnreachable = errors.New("provider unreachable")
	// ErrInvalidData is returned when the provider answered with a body that
	// does not have the expected shape. It is never retried.
	ErrInvalidData = errors.New("invalid data received")
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Policy configures retries.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	// Retryable reports whether a failed attempt may be repeated.
	// Nil means DefaultRetryable.
	Retryable func(error) bool
}

// DefaultPolicy returns 3 attempts, 1s apart, retrying transient failures.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		Retryable:   DefaultRetryable,
	}
}

// DefaultRetryable retries everything except malformed payloads and
// context cancellation.
func DefaultRetryable(err error) bool {
	if errors.Is(err, ErrInvalidData) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// envelope is the common {code, status, data} wrapper of every response.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Client is a retrying JSON GET client.
type Client struct {
	httpClient *http.Client
	policy     Policy
	log        zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPolicy replaces the retry policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client with a 10s per-attempt timeout and DefaultPolicy.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		policy:     DefaultPolicy(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy.MaxAttempts < 1 {
		c.policy.MaxAttempts = 1
	}
	if c.policy.Retryable == nil {
		c.policy.Retryable = DefaultRetryable
	}
	return c
}

// Request names one logical provider call.
type Request struct {
	// Name labels the call in logs and metrics, e.g. "timings".
	Name   string
	URL    string
	Params url.Values
}

// Get performs req and decodes the envelope's data field into out.
func (c *Client) Get(ctx context.Context, req Request, out any) error {
	reqURL := req.URL
	if len(req.Params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", req.URL, req.Params.Encode())
	}
	label := req.Name
	if label == "" {
		label = endpointLabel(req.URL)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	attempts := 0
	op := func() error {
		attempts++
		start := time.Now()
		err := c.attempt(httpReq.Clone(ctx), out)
		metrics.ObserveProviderRequest(label, start, err)
		c.log.Debug().Str("endpoint", label).Int("attempt", attempts).Err(err).Msg("fetch: attempt finished")
		if err != nil && !c.policy.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(c.policy.Delay)
	b = backoff.WithMaxRetries(b, uint64(c.policy.MaxAttempts-1))
	b = backoff.WithContext(b, ctx)

	notify := func(err error, wait time.Duration) {
		metrics.ProviderRetries.WithLabelValues(label).Inc()
		c.log.Warn().Err(err).Str("endpoint", label).Int("attempt", attempts).Dur("retry_in", wait).Msg("fetch: request failed, retrying")
	}

	err = backoff.RetryNotify(op, b, notify)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if !c.policy.Retryable(err) {
		c.log.Error().Err(err).Str("endpoint", label).Msg("fetch: permanent failure")
		return err
	}
	c.log.Error().Err(err).Str("endpoint", label).Int("attempts", attempts).Msg("fetch: giving up")
	return fmt.Errorf("%w after %d attempts: %w", ErrUnreachable, attempts, err)
}

func (c *Client) attempt(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrInvalidData, err)
	}
	if env.Code != http.StatusOK {
		return fmt.Errorf("%w: code=%d status=%s", ErrInvalidData, env.Code, env.Status)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: missing data", ErrInvalidData)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrInvalidData, err)
	}
	return nil
}

func endpointLabel(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Path == "" {
		return endpoint
	}
	return u.Path
}
