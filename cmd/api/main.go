package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/leaderboard/internal/aggregate"
	"example.com/leaderboard/internal/api"
	"example.com/leaderboard/internal/auth"
	"example.com/leaderboard/internal/config"
	"example.com/leaderboard/internal/domain"
	"example.com/leaderboard/internal/observability"
	"example.com/leaderboard/internal/rank"
	"example.com/leaderboard/internal/recompute"
	"example.com/leaderboard/internal/rollup"
	"example.com/leaderboard/internal/service"
	memorystore "example.com/leaderboard/internal/store/memory"
	postgresstore "example.com/leaderboard/internal/store/postgres"
	httptransport "example.com/leaderboard/internal/transport/http"
	"example.com/leaderboard/internal/workout"
)

type stores struct {
	activities  domain.ActivityStore
	identity    domain.IdentityStore
	leaderboard domain.LeaderboardStore
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var backing stores
	switch cfg.StoreBackend {
	case "memory":
		mem := memorystore.NewStore()
		backing = stores{activities: mem, identity: mem, leaderboard: mem}
	default:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		pg := postgresstore.NewStore(pool)
		backing = stores{activities: pg, identity: pg, leaderboard: pg}
	}

	metric, err := rank.ParseMetric(cfg.RankingMetric)
	if err != nil {
		log.Fatalf("invalid RANKING_METRIC: %v", err)
	}

	aggregator := aggregate.NewAggregator(backing.activities, backing.identity)
	orchestrator := recompute.NewOrchestrator(aggregator, backing.identity, backing.leaderboard,
		recompute.WithMetric(metric),
		recompute.WithConcurrency(cfg.RecomputeConcurrency),
	)
	teamRollup := rollup.NewRollup(backing.identity, backing.leaderboard)
	svc := service.New(aggregator, teamRollup, orchestrator, backing.leaderboard)

	if cfg.RecomputeOnStartup {
		observability.RecordRecomputeTriggered("startup")
		if _, err := svc.RecomputeAll(ctx); err != nil {
			log.Printf("startup recompute failed: %v", err)
		}
	}

	workouts := workout.NewDefaultCatalog()

	handler := api.NewHandler(svc, workouts)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	skipper := func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	}
	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, skipper)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(logger(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("leaderboard-service listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
