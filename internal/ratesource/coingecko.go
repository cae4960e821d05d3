package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"golang.org/x/time/rate"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
)

// CoinGeckoURL is the public simple price endpoint; no API key required.
const CoinGeckoURL = "https://api.coingecko.com/api/v3/simple/price"

// defaultCryptoIDs maps tracked crypto codes to CoinGecko asset IDs.
var defaultCryptoIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
	"ADA": "cardano",
	"DOT": "polkadot",
}

// CoinGecko fetches crypto rates against the base currency.
type CoinGecko struct {
	url     string
	base    string
	ids     map[string]string
	client  *http.Client
	limiter *rate.Limiter
	retry   *retrier.Retrier
}

// NewCoinGecko returns a CoinGecko client tracking the default crypto set.
func NewCoinGecko(cfg Config) *CoinGecko {
	cfg = cfg.withDefaults()

	return &CoinGecko{
		url:     CoinGeckoURL,
		base:    cfg.Base,
		ids:     defaultCryptoIDs,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 10),
		retry:   newRetrier(cfg),
	}
}

// Name implements Source.
func (c *CoinGecko) Name() string { return "coingecko" }

// FetchRates implements Source. Pairs are keyed crypto code to base
// currency, e.g. "BTC_USD".
func (c *CoinGecko) FetchRates(ctx context.Context) (map[string]float64, error) {
	ids := make([]string, 0, len(c.ids))
	for _, id := range c.ids {
		ids = append(ids, id)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", strings.ToLower(c.base))

	// response shape: {"bitcoin": {"usd": 111701.0}, ...}
	var response map[string]map[string]float64

	err := getJSON(ctx, c.client, c.limiter, c.retry, c.url+"?"+params.Encode(), &response)
	if err != nil {
		return nil, &domain.SourceUnavailableError{Source: c.Name(), Reason: err}
	}

	vs := strings.ToLower(c.base)

	rates := make(map[string]float64)
	for code, id := range c.ids {
		if r, ok := response[id][vs]; ok {
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
