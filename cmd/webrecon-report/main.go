// Command webrecon-report serves a completed scan workspace over HTTP so
// findings, persisted assets, and screenshots can be reviewed in a
// browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sigman78/webrecon/internal/reportserver"
)

func main() {
	fs := flag.NewFlagSet("webrecon-report", flag.ContinueOnError)
	dir := fs.String("dir", "", "Scan workspace directory to serve")
	port := fs.Int("port", 8090, "Port to listen on")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if *dir == "" {
		fmt.Fprintln(os.Stderr, "error: -dir is required")
		os.Exit(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := reportserver.Serve(ctx, *dir, *port); err != nil {
		logger.Fatal().Err(err).Msg("report server failed")
	}
}
