package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/electric-hospitality/catering-api/internal/config"
	"github.com/electric-hospitality/catering-api/internal/router"
	"github.com/electric-hospitality/catering-api/internal/ws"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()

	// Database is optional: without it, drafts live in memory and no
	// submission log is kept.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatalf("Database ping failed: %v", err)
		}
	}

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, pool, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
