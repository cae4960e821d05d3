package ratesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
)

func testConfig() Config {
	return Config{
		Timeout:    time.Second,
		Retries:    3,
		RetryDelay: time.Millisecond,
		APIKey:     "test-key",
		Base:       "USD",
	}
}

func TestLinearBackoff(t *testing.T) {
	backoff := linearBackoff(3, time.Second)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, backoff)

	require.Empty(t, linearBackoff(1, time.Second))
	require.Empty(t, linearBackoff(0, time.Second))
}

func TestCoinGeckoFetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		require.Contains(t, r.URL.Query().Get("ids"), "bitcoin")

		w.Write([]byte(`{
			"bitcoin": {"usd": 50000.0},
			"ethereum": {"usd": 3000.0}
		}`))
	}))
	defer server.Close()

	src := NewCoinGecko(testConfig())
	src.url = server.URL

	rates, err := src.FetchRates(context.Background())
	require.NoError(t, err)

	require.Equal(t, map[string]float64{
		"BTC_USD": 50000,
		"ETH_USD": 3000,
	}, rates)
}

func TestCoinGeckoRetriesOnServerError(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Write([]byte(`{"bitcoin": {"usd": 50000.0}}`))
	}))
	defer server.Close()

	src := NewCoinGecko(testConfig())
	src.url = server.URL

	rates, err := src.FetchRates(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Equal(t, float64(50000), rates["BTC_USD"])
}

func TestCoinGeckoGivesUpAfterRetries(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewCoinGecko(testConfig())
	src.url = server.URL

	_, err := src.FetchRates(context.Background())

	var unavailable *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, "coingecko", unavailable.Source)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCoinGeckoFailsFastOnClientError(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewCoinGecko(testConfig())
	src.url = server.URL

	_, err := src.FetchRates(context.Background())

	var unavailable *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCoinGeckoFailsFastOnMalformedBody(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	src := NewCoinGecko(testConfig())
	src.url = server.URL

	_, err := src.FetchRates(context.Background())

	var unavailable *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCoinGeckoEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	src := NewCoinGecko(testConfig())
	src.url = server.URL

	_, err := src.FetchRates(context.Background())

	var unavailable *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestExchangeRateAPIFetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/test-key/latest/USD", r.URL.Path)

		w.Write([]byte(`{
			"result": "success",
			"conversion_rates": {"EUR": 0.92, "GBP": 0.79, "USD": 1.0}
		}`))
	}))
	defer server.Close()

	src := NewExchangeRateAPI(testConfig())
	src.url = server.URL

	rates, err := src.FetchRates(context.Background())
	require.NoError(t, err)

	require.Equal(t, map[string]float64{
		"EUR_USD": 0.92,
		"GBP_USD": 0.79,
	}, rates)
}

func TestExchangeRateAPIMissingKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""

	src := NewExchangeRateAPI(cfg)

	_, err := src.FetchRates(context.Background())

	var unavailable *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, "exchangerate", unavailable.Source)
}

func TestExchangeRateAPIErrorResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "error", "error-type": "invalid-key"}`))
	}))
	defer server.Close()

	src := NewExchangeRateAPI(testConfig())
	src.url = server.URL

	_, err := src.FetchRates(context.Background())

	var unavailable *domain.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Contains(t, err.Error(), "invalid-key")
}

func TestFetchRatesHonorsContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewCoinGecko(testConfig())
	src.url = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchRates(ctx)
	require.Error(t, err)
}
