package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"github.com/lfreitas/branchbank/internal/core/account"
	"github.com/lfreitas/branchbank/internal/core/account/store/accountmem"
	"github.com/lfreitas/branchbank/internal/core/client"
	"github.com/lfreitas/branchbank/internal/core/client/store/clientmem"
	"github.com/lfreitas/branchbank/internal/handlers"
	"github.com/lfreitas/branchbank/internal/logger"
	"github.com/lfreitas/branchbank/internal/trace"
)

var build = "develop"

func main() {
	log := logger.New("BranchBank")

	if err := run(log); err != nil {
		log.Error("startup", "ERROR", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx := context.Background()

	// =========================================================================
	// Configuration

	// A missing .env file is fine, the environment wins anyway.
	godotenv.Load()

	cfg := struct {
		conf.Version
		Env string `conf:"default:DEV"`
		Web struct {
			Port            int           `conf:"default:8080"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
		}
		Trace struct {
			Endpoint       string  `conf:"default:localhost:4317"`
			SampleFraction float64 `conf:"default:1"`
			Discard        bool    `conf:"default:true"`
		}
	}{
		Version: conf.Version{
			Build: build,
		},
	}

	const prefix = "BRANCHBANK"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Info("starting service", "version", build)
	defer log.Info("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Info("startup", "config", out)

	// =========================================================================
	// Tracing Support

	log.Info("startup", "status", "initializing tracing support")

	provider, err := trace.NewProvider(ctx, trace.Config{
		Env:            cfg.Env,
		Endpoint:       cfg.Trace.Endpoint,
		Service:        "branchbank",
		SampleFraction: cfg.Trace.SampleFraction,
		DiscardTraces:  cfg.Trace.Discard,
	})
	if err != nil {
		return fmt.Errorf("starting tracer provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		provider.Shutdown(ctx)
	}()

	tracer := provider.Tracer("branchbank")

	// =========================================================================
	// Start API Service

	log.Info("startup", "status", "initializing BRANCHBANK API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// All state lives in memory for the lifetime of the process.
	accounts := account.NewCore(accountmem.NewStore(log))
	clients := client.NewCore(clientmem.NewStore(log), accounts)

	srv := handlers.NewServer(log, clients, accounts)
	mux := handlers.APIMux(srv, tracer)

	api := http.Server{
		Addr:     fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:  mux,
		ErrorLog: slog.NewLogLogger(log.Handler(), slog.LevelInfo),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
