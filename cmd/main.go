package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"sicbot/internal/config"
	"sicbot/internal/core/automation"
	"sicbot/internal/core/portal"
	"sicbot/internal/core/registro"
	"sicbot/internal/core/whatsapp"
	"sicbot/internal/logger"
	"sicbot/internal/platform/postgres"
	rds "sicbot/internal/platform/redis"
	tasks "sicbot/internal/platform/tasks"
	"sicbot/internal/server"
	"sicbot/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[sicbot] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	maps, err := config.LoadMaps(cfg.MatchMapsPath)
	if err != nil {
		log.Fatalf("load match maps: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	// Database pool and schema
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// Redis client
	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	// Asynq client and server. Concurrency is 1: runs drive a real browser
	// against shared accounts and must never overlap.
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	})

	// Core services
	repo := registro.NewRepository(pool)
	tracker := registro.NewTracker(repo, redisSvc)

	newPortal := func() (automation.PortalRun, error) {
		eng := portal.New(cfg, maps)
		if err := eng.Start(); err != nil {
			eng.Close()
			return nil, err
		}
		return eng, nil
	}
	newSender := func() (automation.SenderRun, error) {
		d := whatsapp.NewDispatcher(cfg, maps)
		if err := d.Start(); err != nil {
			d.Close()
			return nil, err
		}
		return d, nil
	}

	autoSvc := automation.NewService(cfg, maps, tracker, repo, taskClient, newPortal, newSender)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(automation.TaskTypeRun, autoSvc.HandleTask)

	// Start worker
	_, workerCancel := context.WithCancel(context.Background())
	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "SIC Automation",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})
	// Serve run artifacts (screenshots, DOM dumps) from DATA_DIR under /files
	app.Static("/files", cfg.DataDir)

	deps := server.Dependencies{
		Registros: repo,
		Trigger:   autoSvc,
		Redis:     redisSvc,
		Pool:      pool,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	// Mark application as ready after all services are initialized
	go func() {
		time.Sleep(5 * time.Second)
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		workerCancel()
		asynqServer.Shutdown()
		_ = taskClient.Close()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
