package main

//
//  @title           fxtrades API
//  @version         1.0
//  @description     FX trade line ingestion service.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/fxtrades
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        trades
//  @tag.description Trade ingestion
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/fxtrades/config"
	_ "github.com/guttosm/fxtrades/docs" // swagger docs
	"github.com/guttosm/fxtrades/internal/app"
	"github.com/guttosm/fxtrades/internal/ingestion"
	"github.com/guttosm/fxtrades/internal/logger"
)

const (
	modeIngest = "ingest"
	modeAPI    = "api"

	shutdownTimeout = 10 * time.Second
)

// options are the command line settings for one run.
type options struct {
	mode  string
	input string
	port  string
}

// parseFlags reads args on top of the configured defaults.
//
// Flags:
//   - --mode:  "ingest" (default) or "api".
//   - --input: trade source for ingest mode; a text file, a directory, an .xlsx
//     workbook or "-" for stdin. Defaults to INPUT_PATH.
//   - --port:  port for API mode. Defaults to SERVER_PORT.
func parseFlags(args []string, cfg config.Config) (options, error) {
	fs := flag.NewFlagSet("fxtrades", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts options
	fs.StringVar(&opts.mode, "mode", modeIngest, "Mode: ingest or api")
	fs.StringVar(&opts.input, "input", cfg.Trades.InputPath, "Trade file, directory, .xlsx workbook or - for stdin")
	fs.StringVar(&opts.port, "port", cfg.Server.Port, "Port for API mode")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.mode {
	case modeIngest:
		if opts.input == "" {
			return options{}, errors.New("ingest mode needs --input or INPUT_PATH")
		}
	case modeAPI:
	default:
		return options{}, fmt.Errorf("unknown mode %q", opts.mode)
	}
	return opts, nil
}

// runIngest runs the trade pipeline once over input and stores the result.
func runIngest(ctx context.Context, cfg config.Config, input string) error {
	db, err := app.InitDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	pipeline, err := app.NewPipeline(cfg, db, logger.Default())
	if err != nil {
		return err
	}

	logger.L().Info().Str("input", input).Str("table", pipeline.Storage.Table()).Msg("running ingestion")
	return pipeline.Processor(ingestion.ProviderForPath(input)).ProcessTrades(ctx)
}

// newServer builds the HTTP server for router.
func newServer(router http.Handler, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// runServer serves until ctx is done or the listener fails, then shuts the
// server down and calls cleanup.
//
// Returns:
//   - error: a listen failure or a shutdown that did not finish in time.
func runServer(ctx context.Context, server *http.Server, cleanup func()) error {
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.L().Info().Msg("server exited gracefully")
	return nil
}

// main is the entry point of the fxtrades application.
//
// Modes (selected via --mode flag):
//   - ingest: Reads trade lines from --input, validates and stores them.
//   - api:    Starts the REST API that accepts trade lines over HTTP.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	opts, err := parseFlags(os.Args[1:], config.AppConfig)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid arguments")
	}

	switch opts.mode {
	case modeIngest:
		if err := runIngest(ctx, config.AppConfig, opts.input); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case modeAPI:
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		if err := runServer(ctx, newServer(router, opts.port), cleanup); err != nil {
			logger.L().Fatal().Err(err).Msg("server failed")
		}
	}
}
