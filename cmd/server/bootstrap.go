package main

import (
	"fmt"
	"time"

	"stock-quote-service/internal/api"
	"stock-quote-service/internal/directory"
	"stock-quote-service/internal/engine"
	"stock-quote-service/internal/engine/engineobs"
	"stock-quote-service/internal/interfaces"
	"stock-quote-service/internal/logger"
	"stock-quote-service/internal/quote"
	"stock-quote-service/internal/resolve"
	"stock-quote-service/internal/store"
	"stock-quote-service/internal/trace"
)

// initializeSystem initializes the logger and tracer
func initializeSystem() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	return nil
}

// buildEngine wires the full lookup pipeline from configuration: directory
// cache, resolver strategies, quote source chains, and the engine with its
// observability wrapper. The directory cache is returned separately so the
// debug endpoint can invalidate it.
func buildEngine(cfg *store.Config) (interfaces.Engine, *directory.Cache) {
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second

	// One bucket across every upstream client; the scraped endpoints are
	// quick to serve captcha pages to bursty callers.
	limiter := api.NewRateLimiter(10, 100*time.Millisecond)

	httpClient := api.NewClient(
		api.WithTimeout(timeout),
		api.WithLogging(true),
		api.WithRateLimiter(limiter),
	)
	// The redirect probe inspects 3xx responses itself.
	probeClient := api.NewClient(
		api.WithTimeout(timeout),
		api.WithLogging(true),
		api.WithoutRedirects(),
		api.WithRateLimiter(limiter),
	)

	krx := directory.NewKRXClient(httpClient, cfg.Directory.KRXBaseURL)
	dir := directory.NewCache(krx, time.Duration(cfg.Directory.TTLHours)*time.Hour)

	resolver := resolve.New(cfg.Aliases, dir,
		resolve.NewRedirectProbe(probeClient, cfg.Naver.FinanceBaseURL),
		resolve.NewResultsPageScraper(cfg.Naver.FinanceBaseURL, timeout),
		resolve.NewJSONSearch(httpClient, cfg.Naver.SearchAPIBaseURL),
		resolve.NewAutocomplete(httpClient, cfg.Naver.AutocompleteBaseURL),
	)

	domestic := []quote.Source{
		quote.NewRealtimeSource(httpClient, cfg.Naver.PollingBaseURL, quote.QueryTypeItem),
		quote.NewRealtimeSource(httpClient, cfg.Naver.PollingBaseURL, quote.QueryTypeRecentItem),
		quote.NewPageSource(httpClient, cfg.Naver.FinanceBaseURL),
	}
	foreign := []quote.Source{
		quote.NewChartSource(httpClient, cfg.Yahoo.ChartBaseURL),
	}

	eng := engine.New(resolver, quote.NewFetcher(domestic, foreign))
	return engineobs.Wrap(eng), dir
}
