package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"skincompass/internal/adapter"
	"skincompass/internal/api"
	"skincompass/internal/cache"
	"skincompass/internal/config"
	"skincompass/internal/currency"
	"skincompass/internal/database"
	"skincompass/internal/feeds"
	"skincompass/internal/logger"
	"skincompass/internal/pricing"
	"skincompass/internal/settings"
	"skincompass/internal/storage"
)

// feedSources are the price tables refreshed from the raw feed. Buff is the
// primary; the rest back the configurable pricing/fallback sources.
var feedSources = []pricing.MarketSource{
	pricing.SourceBuff,
	pricing.SourceSteam,
	pricing.SourceYouPin,
	pricing.SourceSkinport,
	pricing.SourceCSFloat,
}

func main() {
	log := logger.New()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg := config.Load()

	opts, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load settings")
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	store := storage.NewStore(db)

	ctx := context.Background()

	converter := currency.NewConverter(
		feeds.NewRatesClient(cfg.CurrencyAPIURL),
		store,
		logger.WithComponent(log, "currency"),
	)
	converter.Refresh(ctx)
	go converter.RunRefresher(ctx, time.Hour)

	table := pricing.NewPriceTable()
	refresher := feeds.NewRefresher(
		table,
		feeds.NewPriceFeedClient(cfg.PriceFeedURL),
		store,
		feedSources,
		logger.WithComponent(log, "pricefeed"),
	)
	refresher.Bootstrap()
	go refresher.Run(ctx)

	pipeline := adapter.NewPipeline(
		pricing.NewResolver(table),
		converter,
		opts,
		logger.WithComponent(log, "pipeline"),
	)
	pipeline.Register(adapter.NewSkinportAdapter())
	pipeline.Register(adapter.NewCSFloatAdapter())
	pipeline.Register(adapter.NewLisskinsAdapter())
	pipeline.Register(adapter.NewSkinbidAdapter())

	comparisons := cache.NewComparisonCache(feeds.NewComparisonClient(cfg.ComparisonAPIURL))

	if cfg.ItemFeedWSURL != "" {
		itemFeed := feeds.NewItemFeed(cfg.ItemFeedWSURL, pipeline, logger.WithComponent(log, "itemfeed"))
		go itemFeed.Run(ctx)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Steam-Id")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, pipeline, comparisons, converter, refresher, opts, logger.WithComponent(log, "api"))

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
