package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/middleware"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/raterefresh"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/raterepo"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ratesource"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ratetable"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/configpkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/jsonstore"
)

// updater periodically fetches fresh exchange rates and persists them,
// so that a separately running server always reads a recent snapshot.
func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	store, err := jsonstore.Open(config.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot open data store")
	}

	rateRepo := raterepo.New(store)
	table := ratetable.New(config.RatesTTL)

	if snap, ok, err := rateRepo.LoadSnapshot(); err != nil {
		logger.Fatal().Err(err).Msg("cannot load rates snapshot")
	} else if ok {
		table.Replace(snap)
	}

	sourceConfig := ratesource.Config{
		Timeout:    config.SourceTimeout,
		Retries:    config.SourceRetries,
		RetryDelay: config.SourceRetryDelay,
		APIKey:     config.ExchangeRateAPIKey,
		Base:       config.DefaultBaseCurrency,
	}

	refresher := raterefresh.New(rateRepo, table,
		ratesource.NewCoinGecko(sourceConfig),
		ratesource.NewExchangeRateAPI(sourceConfig),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	logger.Info().Dur("interval", config.UpdateInterval).Msg("starting rates updater")

	refresh(ctx, refresher)

	ticker := time.NewTicker(config.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down rates updater")
			return
		case <-ticker.C:
			refresh(ctx, refresher)
		}
	}
}

func refresh(ctx context.Context, refresher *raterefresh.Service) {
	l := log.Ctx(ctx)

	snap, err := refresher.Refresh(ctx)
	if err != nil {
		l.Error().Err(err).Msg("rates refresh failed")
		return
	}

	l.Info().Int("pairs", len(snap.Pairs)).Msg("rates refreshed")
}
