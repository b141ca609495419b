package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"wgcAdmin/internal/config"
	"wgcAdmin/internal/logging"
	"wgcAdmin/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	flag.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "wg-controller base URL (WGC_URL)")
	flag.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "authenticate with an API key instead of a login (WGC_API_KEY)")
	flag.StringVar(&cfg.Email, "email", cfg.Email, "email to prefill on the login page (WGC_EMAIL)")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per request timeout (WGC_TIMEOUT)")
	flag.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "max requests per second, 0 for no limit (WGC_RATE_LIMIT)")
	flag.DurationVar(&cfg.AutoRefresh, "refresh", cfg.AutoRefresh, "client list auto refresh interval, 0 disables (WGC_AUTO_REFRESH)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (WGC_LOG_LEVEL)")
	flag.Parse()

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	log := logging.New(cfg.LogLevel)
	log.Info().
		Str("url", cfg.BaseURL).
		Bool("api_key", cfg.APIKey != "").
		Dur("timeout", cfg.Timeout).
		Msg("starting")

	app, err := ui.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start")
	}
	app.Run()
}
