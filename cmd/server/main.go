package main

import (
	"log/slog"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tripshare/ledger/internal/config"
	"github.com/tripshare/ledger/internal/events"
	"github.com/tripshare/ledger/internal/events/kafka"
	"github.com/tripshare/ledger/internal/middleware"
	"github.com/tripshare/ledger/internal/service"
	"github.com/tripshare/ledger/internal/storage"
	"github.com/tripshare/ledger/internal/storage/memory"
	"github.com/tripshare/ledger/internal/storage/postgres"
	"github.com/tripshare/ledger/internal/storage/sqlite"
	"github.com/tripshare/ledger/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		slog.Info("Event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	)

	mux := http.NewServeMux()

	ledgerPath, ledgerHandler := service.NewLedgerServiceHandler(
		service.NewLedgerService(store, publisher), interceptors)
	mux.Handle(ledgerPath, ledgerHandler)

	tripPath, tripHandler := service.NewTripServiceHandler(
		service.NewTripService(store), interceptors)
	mux.Handle(tripPath, tripHandler)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with CORS, then h2c for HTTP/2 without TLS (required for
	// Connect). Request logging happens in the interceptors.
	handler := corsMiddleware(mux)
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Ledger server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// openStore selects the storage backend from config.
func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(cfg.DatabaseURL)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return sqlite.New(cfg.DBPath)
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
