package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shelfwise/circulation-engine-go/example/features/command/fulfillreservation"
	"github.com/shelfwise/circulation-engine-go/example/features/command/issueloan"
	"github.com/shelfwise/circulation-engine-go/example/features/command/returnloan"
	"github.com/shelfwise/circulation-engine-go/example/httpapi"
	"github.com/shelfwise/circulation-engine-go/example/shared/config"
	"github.com/shelfwise/circulation-engine-go/example/shared/shell"
	"github.com/shelfwise/circulation-engine-go/inventory"
	"github.com/shelfwise/circulation-engine-go/inventory/postgresengine"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName)

	pool, err := config.NewPGXPool(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	repo, err := postgresengine.NewRepositoryFromPGXPool(pool, postgresengine.WithLogger(logger))
	if err != nil {
		log.Fatalf("repository: %v", err)
	}

	engine, err := inventory.NewEngine(repo, inventory.WithLogger(logger))
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	store, err := shell.NewPGXCirculationStore(pool)
	if err != nil {
		log.Fatalf("circulation store: %v", err)
	}

	handler := &httpapi.CirculationHandler{
		Engine:             engine,
		IssueLoan:          issueloan.NewCommandHandler(engine, store),
		ReturnLoan:         returnloan.NewCommandHandler(store),
		FulfillReservation: fulfillreservation.NewCommandHandler(engine, store),
	}

	router := httpapi.NewRouter()
	handler.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if listenErr := srv.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			log.Fatalf("listen: %v", listenErr)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
