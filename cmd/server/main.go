package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/osrm"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/maplink"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, OSRM) behind ports and starts
// the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/tasks.json")
	port := config.Get("PORT", "8080")

	osrmBase := config.Get("OSRM_BASE_URL", "https://router.project-osrm.org/v1/driving")
	routeURL := config.Get("OSRM_ROUTE_URL", "https://router.project-osrm.org/route/v1/driving")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	// Redis cache when configured, otherwise the SQLite-backed cache so
	// engine payloads survive restarts either way.
	var routeCache ports.RouteCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		routeCache = cache.NewRedisRouteCache(rdb)
		log.Printf("route cache backend=redis addr=%s", addr)
	} else {
		routeCache = cache.NewSqliteRouteCache(db)
		log.Printf("route cache backend=sqlite path=%s", dbPath)
	}

	client, err := osrm.NewClient(osrmBase, routeURL, routeCache)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteTaskRepository(db)

	var opts []services.Option
	if v := os.Getenv("MAX_VEHICLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("MAX_VEHICLES must be a positive integer, got %q", v)
		}
		opts = append(opts, services.WithMaxVehicles(n))
	}
	optimizer := services.NewOptimizer(repo, client, opts...)

	router := api.NewRouter(repo, optimizer, routeCache, maplink.NewExpander())

	// Timeouts are tuned for cold-cache optimization (external engine latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
