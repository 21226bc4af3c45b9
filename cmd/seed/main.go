package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/Thebys/b48-display-controller/internal/config"
	"github.com/Thebys/b48-display-controller/internal/db/gormdb"
	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
	mesgRepo "github.com/Thebys/b48-display-controller/internal/repository/gorm/message"
)

// seedSource tags bootstrap rows so operators can tell them apart from
// messages added over the API.
const seedSource = "SQLiteBootstrap"

const (
	seedLine = 48
	seedZone = 101
)

type seedMessage struct {
	priority int
	intro    string
	scroll   string
	hint     string
}

// Bootstrap content for a fresh controller: a bilingual welcome plus the
// recurring space events. Line 48 and zone 101 are the house defaults.
var seedMessages = []seedMessage{
	{40, "Base48", "Vítejte v hackerspace Base48", "Vitejte"},
	{40, "Base48", "Welcome to Base48 hackerspace", "Welcome"},
	{38, "Base48", "Úklidový den v neděli, přidej ruku k dílu", "Uklid"},
	{38, "Base48", "Cleanup day on Sunday, lend a hand", "Cleanup"},
	{36, "Base48", "Grilovačka v sobotu od 18:00 na terase", "Gril"},
	{36, "Base48", "Barbecue on Saturday from 18:00 on the terrace", "BBQ"},
}

func main() {
	ctx := context.Background()

	// Load application configuration from env/.env.
	cfg := config.New()

	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("[Seed] Could not create database directory %s: %v", dir, err)
		}
	}

	// Open the SQLite store through our GORM adapter.
	gormAdapter, err := gormdb.New(cfg.DB.Path)
	if err != nil {
		log.Fatalf("[Seed] Failed to open database: %v", err)
	}

	log.Printf("[Seed] Opened database %q", cfg.DB.Path)

	// The repository expects a db.DB interface, so we pass the adapter,
	// not the raw *gorm.DB.
	repo := mesgRepo.NewRepository(gormAdapter)

	// Make sure the messages table exists.
	if err := repo.AutoMigrate(); err != nil {
		log.Fatalf("[Seed] AutoMigrate failed: %v", err)
	}
	log.Println("[Seed] Messages table is up to date (AutoMigrate completed).")

	inserted := 0
	for i, sm := range seedMessages {
		// Skip rows that already exist so re-running the seeder is harmless.
		exists, err := repo.ExistsScrollingMessage(ctx, sm.scroll)
		if err != nil {
			log.Fatalf("[Seed] Duplicate check failed for #%d: %v", i+1, err)
		}
		if exists {
			log.Printf("[Seed] Skipping #%d, already present: %s", i+1, sm.scroll)
			continue
		}

		// Use the domain constructor so we respect domain rules.
		e, err := domain.NewDurable(sm.priority, seedLine, seedZone, sm.intro, sm.scroll, sm.hint)
		if err != nil {
			log.Fatalf("[Seed] Invalid seed message #%d: %v", i+1, err)
		}
		e.SourceInfo = seedSource

		id, err := repo.Insert(ctx, e)
		if err != nil {
			log.Fatalf("[Seed] Failed to insert message #%d: %v", i+1, err)
		}

		log.Printf("[Seed] Created message #%d: id=%d priority=%d %q",
			i+1, id, e.Priority, e.ScrollingMessage)
		inserted++
	}

	log.Printf("[Seed] Done. Inserted %d of %d bootstrap messages.", inserted, len(seedMessages))
}
