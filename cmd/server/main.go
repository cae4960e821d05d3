package main

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/currencies"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ledger"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ledgerdelivery"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/middleware"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/portfoliorepo"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ratedelivery"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/raterefresh"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/raterepo"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ratesource"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ratetable"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/userdelivery"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/userrepo"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/userservice"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/configpkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/jsonstore"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/tokenpkg"
)

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

	server, err := createServer(store, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	err = server.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

func createServer(store *jsonstore.Store, logger zerolog.Logger, config configpkg.Config) (*gin.Engine, error) {
	catalog := currencies.Default()

	table := ratetable.New(config.RatesTTL)

	rateRepo := raterepo.New(store)

	if snap, ok, err := rateRepo.LoadSnapshot(); err != nil {
		return nil, err
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

	portfolioRepo := portfoliorepo.New(store)
	userRepo := userrepo.New(store)

	userService := userservice.New(userRepo, portfolioRepo, config.DefaultBaseCurrency, config.StartingBalance)
	ledgerService := ledger.NewLoggingService(ledger.New(portfolioRepo, table, catalog))

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, err
	}

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService, userService, config.DefaultBaseCurrency)
	rateHandler := ratedelivery.NewHandler(table, refresher, rateRepo)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("currency", ledgerdelivery.ValidCurrency(catalog)); err != nil {
			return nil, err
		}
	}

	server := gin.New()
	server.Use(middleware.RequestLogger(logger), gin.Recovery())

	server.POST("/users", userHandler.Register)
	server.POST("/sessions", userHandler.Login)

	server.GET("/rates/history", rateHandler.GetHistory)
	server.GET("/rates/:from/:to", rateHandler.Get)
	server.POST("/rates/refresh", rateHandler.Refresh)

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authRoutes.GET("/portfolio", ledgerHandler.Portfolio)
	authRoutes.POST("/trades/buy", ledgerHandler.Buy)
	authRoutes.POST("/trades/sell", ledgerHandler.Sell)

	return server, nil
}
