// Package ratesource provides the external price source clients.
//
// Every client satisfies Source and reports any failure (HTTP status,
// timeout, malformed payload, missing API key) through a single uniform
// domain.SourceUnavailableError so that the refresh orchestrator can treat
// all sources identically.
package ratesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"golang.org/x/time/rate"
)

// Source is one external rate provider. FetchRates returns a mapping from
// "FROM_TO" pair key to rate.
type Source interface {
	Name() string
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// Config carries the request parameters shared by all source clients.
type Config struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	APIKey     string
	Base       string
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}

	if c.Retries <= 0 {
		c.Retries = 3
	}

	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}

	if c.Base == "" {
		c.Base = "USD"
	}

	return c
}

// linearBackoff returns a backoff schedule growing by delay on every
// attempt: delay, 2*delay, ... up to retries-1 sleeps.
func linearBackoff(retries int, delay time.Duration) []time.Duration {
	if retries < 1 {
		retries = 1
	}

	backoff := make([]time.Duration, retries-1)
	for i := range backoff {
		backoff[i] = time.Duration(i+1) * delay
	}

	return backoff
}

// errPermanent marks failures retrying cannot help with: client errors,
// malformed payloads. Network failures and 5xx statuses stay retryable.
var errPermanent = errors.New("permanent source failure")

func newRetrier(cfg Config) *retrier.Retrier {
	return retrier.New(linearBackoff(cfg.Retries, cfg.RetryDelay),
		retrier.BlacklistClassifier{errPermanent})
}

// getJSON performs one rate-limited, retried GET request and decodes the
// response body into v.
func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, retry *retrier.Retrier, url string, v any) error {
	return retry.RunCtx(ctx, func(ctx context.Context) error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("building http request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "valutatrade-hub/1.0")

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("http get: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode < http.StatusInternalServerError {
				return fmt.Errorf("%w: unexpected status %d", errPermanent, resp.StatusCode)
			}

			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("%w: decoding json: %v", errPermanent, err)
		}

		return nil
	})
}
