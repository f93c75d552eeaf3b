package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/events"
	"github.com/claude/mapty/internal/mcp"
	"github.com/claude/mapty/internal/server"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/tracker"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Mapty starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *migrateOnly {
		if cfg.Storage.Driver != storage.DriverPostgres {
			log.Info("migrate-only: nothing to migrate", "driver", cfg.Storage.Driver)
			return
		}
		if err := storage.RunMigrations(cfg.Database.DSN(), cfg.Storage.Migrations); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrate-only: exiting")
		return
	}

	// Open storage
	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)

	// Event publisher
	var publisher events.Publisher = events.Nop{}
	if cfg.Events.Enabled {
		publisher = events.NewKafka(cfg.Events.Brokers, cfg.Events.Topic)
		log.Info("publishing workout events", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	}
	defer publisher.Close()

	// Restore workouts
	repo := storage.NewWorkoutRepository(kv, cfg.Storage.Key, log)
	svc := tracker.New(repo, log, tracker.WithPublisher(publisher))
	res, err := svc.Load(ctx)
	if err != nil {
		log.Error("failed to load workouts", "error", err)
		os.Exit(1)
	}
	log.Info("workouts restored", "count", res.Restored, "skipped", len(res.Skipped))

	// Create server
	srv := server.New(svc, cfg.Auth.APIKey, cfg.Map.DefaultZoom, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcp.New(mcp.Local{Tracker: svc}, Version, log)))

	if cfg.Server.StaticDir != "" {
		srv.SetFrontend(os.DirFS(cfg.Server.StaticDir))
		log.Info("serving frontend", "dir", cfg.Server.StaticDir)
	}

	// Start server, tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
