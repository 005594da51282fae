package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/atlas-demo/atlas/internal/api"
	"github.com/atlas-demo/atlas/internal/config"
	"github.com/atlas-demo/atlas/internal/db"
	"github.com/atlas-demo/atlas/internal/generator"
	"github.com/atlas-demo/atlas/internal/logging"
	"github.com/atlas-demo/atlas/internal/project"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	envLoaded, err := config.LoadEnvFile(".env")
	if err != nil {
		return err
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.ExportDir(), 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting atlas",
		"version", config.Version,
		"data_dir", logging.SanitizePath(cfg.DataDir()),
		"env_file", envLoaded,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.New(ctx, cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := project.NewRepository(database.Conn())

	authToken, err := ensureAuthToken(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	projectSvc := project.NewService(repo, cfg.FrameRate(), logging.WithComponent(logger, "project"))

	if cfg.SeedDemo() {
		demo, err := projectSvc.SeedDemo(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed demo project: %w", err)
		}
		if demo != nil {
			logger.Info("seeded demo project", "project_id", demo.ID)
		}
	}

	projectCount, err := repo.CountProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to count projects: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║  ATLAS %-50s ║\n", "v"+config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Projects:   %-45s ║\n", humanize.Comma(int64(projectCount)))
	fmt.Printf("║  Generators: %-45d ║\n", len(generator.Schemas()))
	fmt.Printf("║  Frame Rate: %-45s ║\n", humanize.Ftoa(cfg.FrameRate())+" fps")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	apiServer := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		ExportDir:      cfg.ExportDir(),
		ProjectService: projectSvc,
		Repository:     repo,
		Logger:         logger,
		StartTime:      startTime,
		Version:        config.Version,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
	}

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureAuthToken(ctx context.Context, repo project.Repository) (string, error) {
	existing, err := repo.GetConfig(ctx, project.AuthTokenKey)
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, project.AuthTokenKey, token); err != nil {
		return "", err
	}

	return token, nil
}
