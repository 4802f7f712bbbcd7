// Command webrecon scans a domain's Wayback Machine footprint: it lists
// known URLs via the CDX index, fetches each (falling back from live to
// archived bytes), persists the results, mines them for likely secrets,
// inspects any archives it finds, recurses one level into HTML links, and
// screenshots every page it visits. Ground: sigman78/wayback-dl's
// cmd/wayback-dl/main.go flag-handling idiom and TelegramDigestBot's
// cmd/crawler/main.go signal-handling/zerolog setup.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigman78/webrecon/internal/assets"
	"github.com/sigman78/webrecon/internal/browser"
	"github.com/sigman78/webrecon/internal/config"
	"github.com/sigman78/webrecon/internal/report"
	"github.com/sigman78/webrecon/internal/scanner"
	"github.com/sigman78/webrecon/internal/scheduler"
	"github.com/sigman78/webrecon/internal/screenshot"
	"github.com/sigman78/webrecon/internal/wayback"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		cancel()
	}()

	if err := os.MkdirAll(cfg.Directory, 0o750); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Directory).Msg("failed to create workspace")
	}

	store := assets.NewLocalStorage(cfg.Directory)
	reportW, err := report.Open(filepath.Join(cfg.Directory, "sensitive_info.txt"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open report file")
	}
	defer reportW.Close()

	fetcher := wayback.NewFetcherWithRate(&http.Client{}, cfg.CDXRatePerMin)
	pool := browser.New()
	capture := screenshot.NewCapturer(pool)
	screenshotsDir := filepath.Join(cfg.Directory, "screenshots")

	counters := &scanner.Counters{}

	deps := scanner.Deps{
		Fetch:    fetcher,
		Store:    store,
		Report:   reportW,
		Log:      logger,
		MaxDepth: cfg.RecursionDepth,
		Counters: counters,
		Screenshot: func(url string) {
			screenshot.Dispatch(ctx, capture, url, screenshotsDir, func(format string, args ...any) {
				logger.Warn().Msgf(format, args...)
			}, func(ok bool) {
				if ok {
					counters.ScreenshotsCaptured.Add(1)
				} else {
					counters.ScreenshotsFailed.Add(1)
				}
			})
		},
	}

	schedCfg := scheduler.Config{
		Lister:       fetcher,
		Process:      scheduler.ProcessAdapter(deps),
		WorkspaceDir: cfg.Directory,
		Concurrency:  cfg.Concurrency,
		Log:          logger,
		ShowProgress: !cfg.Debug,
		Counters:     counters,
	}

	logger.Info().Str("domain", cfg.Domain).Str("workspace", cfg.Directory).Msg("starting scan")
	summary, err := scheduler.Run(ctx, schedCfg, cfg.Domain)
	if err != nil {
		logger.Fatal().Err(err).Msg("scan failed")
	}
	logger.Info().
		Int64("urls_processed", summary.URLsProcessed).
		Int64("findings_written", summary.FindingsWritten).
		Int64("archives_inspected", summary.ArchivesInspected).
		Int64("screenshots_captured", summary.ScreenshotsCaptured).
		Int64("screenshots_failed", summary.ScreenshotsFailed).
		Msg("scan complete")
}
