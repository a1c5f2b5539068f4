//go:build ignore
// +build ignore

// Creates the detection audit schema.
//
// Usage:
//   DATABASE_URL=postgres://... go run scripts/setup_detection_db.go

package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS detection_events (
    id            UUID PRIMARY KEY,
    identity      TEXT NOT NULL,
    platform      TEXT NOT NULL,
    confidence    INT NOT NULL,
    header_count  INT NOT NULL,
    fast_path     BOOLEAN NOT NULL DEFAULT FALSE,
    cached        BOOLEAN NOT NULL DEFAULT FALSE,
    processing_ms BIGINT NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_detection_events_platform
    ON detection_events (platform);

CREATE INDEX IF NOT EXISTS idx_detection_events_created_at
    ON detection_events (created_at);
`

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	log.Println("detection_events schema is ready")
}
