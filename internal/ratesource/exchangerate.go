package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"golang.org/x/time/rate"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
)

// ExchangeRateAPIURL is the keyed fiat rates endpoint base.
const ExchangeRateAPIURL = "https://v6.exchangerate-api.com/v6"

// defaultFiats is the tracked fiat currency set.
var defaultFiats = []string{"EUR", "GBP", "RUB", "JPY", "CNY"}

// ExchangeRateAPI fetches fiat rates against the base currency. It
// requires an API key.
type ExchangeRateAPI struct {
	url     string
	apiKey  string
	base    string
	fiats   []string
	client  *http.Client
	limiter *rate.Limiter
	retry   *retrier.Retrier
}

// NewExchangeRateAPI returns an ExchangeRate-API client tracking the
// default fiat set.
func NewExchangeRateAPI(cfg Config) *ExchangeRateAPI {
	cfg = cfg.withDefaults()

	return &ExchangeRateAPI{
		url:     ExchangeRateAPIURL,
		apiKey:  cfg.APIKey,
		base:    cfg.Base,
		fiats:   defaultFiats,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		retry:   newRetrier(cfg),
	}
}

// Name implements Source.
func (c *ExchangeRateAPI) Name() string { return "exchangerate" }

// FetchRates implements Source. Pairs are keyed fiat code to base
// currency, e.g. "EUR_USD".
func (c *ExchangeRateAPI) FetchRates(ctx context.Context) (map[string]float64, error) {
	if c.apiKey == "" {
		return nil, &domain.SourceUnavailableError{
			Source: c.Name(),
			Reason: fmt.Errorf("missing API key"),
		}
	}

	var response struct {
		Result          string             `json:"result"`
		ErrorType       string             `json:"error-type"`
		ConversionRates map[string]float64 `json:"conversion_rates"`
	}

	url := fmt.Sprintf("%s/%s/latest/%s", c.url, c.apiKey, c.base)

	err := getJSON(ctx, c.client, c.limiter, c.retry, url, &response)
	if err != nil {
		return nil, &domain.SourceUnavailableError{Source: c.Name(), Reason: err}
	}

	if response.Result != "success" {
		errType := response.ErrorType
		if errType == "" {
			errType = "unknown_error"
		}

		return nil, &domain.SourceUnavailableError{
			Source: c.Name(),
			Reason: fmt.Errorf("api error: %s", errType),
		}
	}

	rates := make(map[string]float64)
	for _, code := range c.fiats {
		if r, ok := response.ConversionRates[code]; ok {
			rates[domain.PairKey(code, c.base)] = r
		}
	}

	if len(rates) == 0 {
		return nil, &domain.SourceUnavailableError{
			Source: c.Name(),
			Reason: fmt.Errorf("no tracked pairs in response"),
		}
	}

	return rates, nil
}
