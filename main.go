package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"squarepad/internal/adapters/catalog"
	"squarepad/internal/adapters/fetcher"
	"squarepad/internal/adapters/handler"
	"squarepad/internal/adapters/oauth"
	"squarepad/internal/adapters/renderer"
	"squarepad/internal/adapters/tokenstore"
	"squarepad/internal/core/domain"
	"squarepad/internal/core/feed"
	"squarepad/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const shutdownGrace = 10 * time.Second

func main() {
	log.Info().Msg("starting squarepad...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	setDefaults()

	log.Info().Msg("reading config file...")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("server.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	cfg := loadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	httpFetcher := fetcher.NewHTTP(cfg)
	squareRenderer := renderer.NewSquare()
	tokens := tokenstore.NewRedis(cfg)
	refresher := service.NewTokenRefresher(oauth.NewHTTP(cfg))
	products := service.NewProduct(tokens, refresher, catalog.NewGraphQL(cfg), cfg)
	squares := service.NewSquare(httpFetcher, squareRenderer)
	feeds := service.NewFeed(httpFetcher, feed.NewRewriter())

	api := handler.NewAPI(cfg, squares, products, feeds)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}

func setDefaults() {
	viper.SetDefault("server.listen_addr", ":8080")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("image.default_size", 1024)
	viper.SetDefault("image.max_size", 2048)
	viper.SetDefault("image.max_input_mb", 15)
	viper.SetDefault("image.fetch_timeout", "5s")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.key_prefix", "squarepad:token:")
}

func loadConfig() domain.Config {
	fetchTimeout, err := time.ParseDuration(viper.GetString("image.fetch_timeout"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid fetch timeout in config")
	}

	return domain.Config{
		ListenAddr:        viper.GetString("server.listen_addr"),
		PublicURL:         viper.GetString("server.public_url"),
		DefaultSize:       viper.GetInt("image.default_size"),
		MaxSize:           viper.GetInt("image.max_size"),
		MaxInputBytes:     viper.GetInt64("image.max_input_mb") * 1024 * 1024,
		FetchTimeout:      fetchTimeout,
		GraphAPIURL:       viper.GetString("catalog.graph_api_url"),
		ImageURLTemplate:  viper.GetString("catalog.image_url_template"),
		OAuthTokenURL:     viper.GetString("oauth.token_url"),
		OAuthClientID:     viper.GetString("oauth.client_id"),
		OAuthClientSecret: viper.GetString("oauth.client_secret"),
		RedisAddr:         viper.GetString("redis.addr"),
		RedisPassword:     viper.GetString("redis.password"),
		RedisDB:           viper.GetInt("redis.db"),
		RedisPrefix:       viper.GetString("redis.key_prefix"),
	}
}
