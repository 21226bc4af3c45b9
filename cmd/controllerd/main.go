package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Thebys/b48-display-controller/internal/cache"
	"github.com/Thebys/b48-display-controller/internal/cache/redis"
	"github.com/Thebys/b48-display-controller/internal/charset"
	"github.com/Thebys/b48-display-controller/internal/config"
	"github.com/Thebys/b48-display-controller/internal/db/gormdb"
	"github.com/Thebys/b48-display-controller/internal/display"
	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
	"github.com/Thebys/b48-display-controller/internal/handler"
	"github.com/Thebys/b48-display-controller/internal/maintenance"
	"github.com/Thebys/b48-display-controller/internal/notify"
	"github.com/Thebys/b48-display-controller/internal/protocol"
	mesgRepo "github.com/Thebys/b48-display-controller/internal/repository/gorm/message"
	routes "github.com/Thebys/b48-display-controller/internal/router"
	"github.com/Thebys/b48-display-controller/internal/scheduler"
	"github.com/Thebys/b48-display-controller/internal/server"
	"github.com/Thebys/b48-display-controller/internal/service"
	"github.com/Thebys/b48-display-controller/internal/transport/dryrun"
	"github.com/Thebys/b48-display-controller/internal/transport/serialport"
)

// @title       Base48 Display Controller API
// @version     1.0
// @description REST control surface for the BS210 dot-matrix destination display.
// @BasePath    /
func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()

	// Boot ID tags this controller run in diagnostics and notifications.
	bootID := uuid.NewString()
	log.Printf("[Main] %s starting (boot %s).", cfg.App.Name, bootID)

	// Init cache. The controller runs fine without one; statistics are
	// skipped when it is missing.
	var stats cache.Cache
	if cfg.Redis.Enabled {
		rc := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Ping(rootCtx); err != nil {
			log.Printf("[Main] Redis unreachable, statistics disabled: %v", err)
		} else {
			stats = rc
		}
	}

	// Init notifier.
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookClient(cfg.Notify.WebhookURL, cfg.Notify.Timeout, cfg.Notify.MaxRetries)
	}

	// Init DB. A broken store degrades the controller to ephemeral-only mode
	// instead of killing it; the panel is more useful half-alive than dead.
	var repo domain.Repository
	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[Main] Could not create database directory %s: %v", dir, err)
		}
	}
	gdb, err := gormdb.New(cfg.DB.Path)
	if err != nil {
		log.Printf("[Main] Store unavailable, running ephemeral-only: %v", err)
		notifyStoreDegraded(rootCtx, notifier, err)
	} else {
		r := mesgRepo.NewRepository(gdb)
		if err := r.AutoMigrate(); err != nil {
			log.Printf("[Main] Store migration failed, running ephemeral-only: %v", err)
			notifyStoreDegraded(rootCtx, notifier, err)
		} else {
			repo = r
		}
	}

	// Init scheduler. A zero seed leaves selection non-deterministic, which
	// is what production wants; fixed seeds are for reproducing reports.
	var rng *rand.Rand
	if cfg.Scheduler.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Scheduler.Seed))
	}
	sched := scheduler.New(repo, scheduler.Config{
		EmergencyThreshold:   cfg.Scheduler.EmergencyThreshold,
		MinRepeatInterval:    cfg.Scheduler.MinRepeatInterval,
		MinDisplayDuration:   cfg.Scheduler.MinDisplayDuration,
		MaxDisplayDuration:   cfg.Scheduler.MaxDisplayDuration,
		BaseDisplayDuration:  cfg.Scheduler.BaseDisplayDuration,
		ScrollCharsPerSecond: cfg.Scheduler.ScrollCharsPerSecond,
		JitterAmplitude:      cfg.Scheduler.JitterAmplitude,
	}, rng)

	// Init the panel link.
	var link protocol.Transport
	var port *serialport.Port
	if cfg.Serial.Enabled {
		p, err := serialport.Open(cfg.Serial.Device)
		if err != nil {
			log.Fatalf("failed to open serial device %s: %v", cfg.Serial.Device, err)
		}
		port = p
		link = p
	} else {
		link = dryrun.New()
	}
	panel := protocol.NewEncoder(charset.NewEncoder(), link)

	// Init the display loop.
	machine := display.NewStateMachine(sched, panel, stats, notifier, display.Config{
		TickInterval:       cfg.Display.TickInterval,
		TransitionDuration: cfg.Display.TransitionDuration,
		TimeSyncInterval:   cfg.Display.TimeSyncInterval,
		IdleText:           cfg.Display.IdleText,
	})

	// Init services and store housekeeping.
	msgSvc := service.NewMessageService(repo, sched, stats, bootID, cfg.Ephemeral.MaxTTL)

	var sweeper maintenance.Sweeper
	if repo != nil {
		sweeper = maintenance.NewSweeper(repo, sched, cfg.Maintenance.ExpirySweepInterval, cfg.Maintenance.PurgeInterval)
	}

	// HTTP dependencies & server wiring.
	deps := routes.AppDeps{
		Home:    handler.NewHomeHandler(msgSvc, stats),
		Message: handler.NewMessageHandler(msgSvc),
		Display: handler.NewDisplayHandler(machine, msgSvc),
	}

	addr := cfg.Addr()
	srv := server.New(addr, deps)

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the HTTP server in a separate goroutine so we can listen for signals.
	go func() {
		log.Printf("HTTP server listening on %s", addr)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Start the display loop after everything is wired up. The panel shows
	// the boot sequence until the first scheduling tick takes over.
	if err := machine.Start(); err != nil {
		log.Fatalf("Display loop error: %v", err)
	}
	log.Println("[Main] Display loop started.")

	if sweeper != nil {
		if err := sweeper.Start(); err != nil {
			log.Fatalf("Maintenance sweeper error: %v", err)
		}
		log.Println("[Main] Maintenance sweeper started.")
	}

	// Block until we receive a shutdown signal.
	<-ctx.Done()
	log.Println("[Main] Shutdown signal received, starting graceful shutdown...")

	// Give components some time to shut down cleanly.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sweeper != nil {
		log.Println("[Main] Stopping maintenance sweeper...")
		if err := sweeper.Stop(); err != nil {
			log.Printf("[Main] Maintenance sweeper stop failed: %v", err)
		}
	}

	// Stop the display loop before touching the serial link it writes to.
	log.Println("[Main] Stopping display loop...")
	if err := machine.Stop(); err != nil {
		log.Printf("[Main] Display loop stop failed: %v", err)
	}

	// Gracefully shut down the HTTP server.
	log.Println("[Main] Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] HTTP server graceful shutdown failed: %v", err)
	} else {
		log.Println("[Main] HTTP server stopped.")
	}

	if port != nil {
		if err := port.Close(); err != nil {
			log.Printf("[Main] Serial close failed: %v", err)
		}
	}

	log.Println("[Main] Shutdown complete.")
}

// notifyStoreDegraded reports ephemeral-only startup so operators notice a
// dead database even while the panel keeps scrolling.
func notifyStoreDegraded(ctx context.Context, n notify.Notifier, cause error) {
	nctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := n.Notify(nctx, notify.Event{
		Name:      notify.EventStoreDegraded,
		Detail:    cause.Error(),
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("[Main] Store degraded notification failed: %v", err)
	}
}
