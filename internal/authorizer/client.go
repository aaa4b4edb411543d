// Package authorizer consults the external authorization service that gates transfers.
package authorizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const (
	defaultTimeout     = 3 * time.Second
	defaultMaxFailures = 5
	defaultOpenTimeout = 30 * time.Second

	maxBodySize = 1 << 20
)

// errCallerGone marks requests abandoned because the caller's context ended.
var errCallerGone = errors.New("caller context done")

// Config holds authorization client settings.
type Config struct {
	URL     string
	Timeout time.Duration
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
}

// Client calls the authorization service through a circuit breaker.
type Client struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// New returns authorization Client.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = defaultMaxFailures
	}

	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}

	settings := gobreaker.Settings{
		Name:        "authorizer",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		url: cfg.URL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

type response struct {
	Data struct {
		Authorization *bool `json:"authorization"`
	} `json:"data"`
}

// Authorize asks the authorization service whether a transfer may proceed.
//
// It returns domain.ErrUnauthorized when the service denies it, and
// domain.ErrAuthorizerUnavailable when the service cannot give an answer.
func (c *Client) Authorize(ctx context.Context) error {
	l := zerolog.Ctx(ctx)

	res, err := c.breaker.Execute(func() (interface{}, error) {
		authorized, err := c.fetch(ctx)
		if err != nil && ctx.Err() != nil {
			return false, fmt.Errorf("%w: %w", errCallerGone, err)
		}

		return authorized, err
	})
	if err != nil {
		l.Error().Err(err).Str("url", c.url).Msg("authorization request failed")
		return domain.ErrAuthorizerUnavailable
	}

	if authorized, ok := res.(bool); !ok || !authorized {
		return domain.ErrUnauthorized
	}

	return nil
}

// fetch performs the request. Denials come back as (false, nil) so they do not count
// as breaker failures.
func (c *Client) fetch(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return false, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&body); err != nil {
		return false, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if body.Data.Authorization == nil {
		return false, nil
	}

	return *body.Data.Authorization, nil
}

