// Package config assembles a scan's settings from CLI flags with an
// environment-variable overlay, following sigman78/wayback-dl's flag-set
// idiom (ContinueOnError, positional-domain-before-flags) for the CLI
// layer and TelegramDigestBot's caarlos0/env struct-tag convention for the
// env layer. Flags always win over env vars, which always win over
// defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable for one domain scan.
type Config struct {
	Domain         string        `env:"WEBRECON_DOMAIN"`
	Directory      string        `env:"WEBRECON_DIRECTORY"`
	Concurrency    int           `env:"WEBRECON_CONCURRENCY" envDefault:"4"`
	RecursionDepth int           `env:"WEBRECON_RECURSION_DEPTH" envDefault:"1"`
	CDXRatePerMin  int           `env:"WEBRECON_CDX_RATE_PER_MIN" envDefault:"60"`
	LiveTimeout    time.Duration `env:"WEBRECON_LIVE_TIMEOUT" envDefault:"15s"`
	ReportPort     int           `env:"WEBRECON_REPORT_PORT" envDefault:"8090"`
	Debug          bool          `env:"WEBRECON_DEBUG" envDefault:"false"`
}

// minRecursionDepth and maxRecursionDepth bound the one-level-by-default
// recursion depth; deeper than 3 risks unbounded blast radius from a
// single seed domain.
const (
	minRecursionDepth = 1
	maxRecursionDepth = 3
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: webrecon <domain> [options]

Arguments:
  domain                  Domain to scan (same as -domain)

Options:
  -domain string          Domain to scan
  -directory string       Output workspace directory (default: ./<domain>/)
  -concurrency int        Concurrent URL-processing workers (default: 4)
  -recursion-depth int    HTML link recursion depth, 1-3 (default: 1)
  -cdx-rate int           CDX requests per minute (default: 60)
  -report-port int        Port for the report server subcommand (default: 8090)
  -debug                  Enable verbose debug logging
  -h / -help              Show this help and exit
`)
}

// Parse builds a Config from args (os.Args[1:] in production), overlaying
// environment variables over flag defaults and flags over both.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("webrecon", flag.ContinueOnError)
	fs.Usage = usage

	domainFlag := fs.String("domain", cfg.Domain, "Domain to scan")
	dirFlag := fs.String("directory", cfg.Directory, "Output workspace directory")
	concurrencyFlag := fs.Int("concurrency", cfg.Concurrency, "Concurrent URL-processing workers")
	depthFlag := fs.Int("recursion-depth", cfg.RecursionDepth, "HTML link recursion depth, 1-3")
	rateFlag := fs.Int("cdx-rate", cfg.CDXRatePerMin, "CDX requests per minute")
	portFlag := fs.Int("report-port", cfg.ReportPort, "Port for the report server subcommand")
	debugFlag := fs.Bool("debug", cfg.Debug, "Enable verbose debug logging")

	for _, a := range args {
		if a == "-h" || a == "-help" || a == "--help" {
			usage()
			os.Exit(0)
		}
	}

	rest := args
	var positionalDomain string
	if len(rest) > 0 && rest[0] != "" && !strings.HasPrefix(rest[0], "-") {
		positionalDomain = rest[0]
		rest = rest[1:]
	}

	if err := fs.Parse(rest); err != nil {
		return nil, err
	}

	if *domainFlag == "" {
		*domainFlag = positionalDomain
	}
	if *domainFlag == "" {
		return nil, fmt.Errorf("domain is required")
	}

	outDir := *dirFlag
	if outDir == "" {
		outDir = "./" + *domainFlag
	}

	depth := *depthFlag
	if depth < minRecursionDepth {
		depth = minRecursionDepth
	}
	if depth > maxRecursionDepth {
		depth = maxRecursionDepth
	}

	if *concurrencyFlag <= 0 {
		return nil, fmt.Errorf("-concurrency must be greater than 0")
	}

	cfg.Domain = *domainFlag
	cfg.Directory = outDir
	cfg.Concurrency = *concurrencyFlag
	cfg.RecursionDepth = depth
	cfg.CDXRatePerMin = *rateFlag
	cfg.ReportPort = *portFlag
	cfg.Debug = *debugFlag

	return cfg, nil
}
