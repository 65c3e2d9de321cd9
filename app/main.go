package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftnag/draft-nag/app/api"
	"github.com/draftnag/draft-nag/app/cfg"
	"github.com/draftnag/draft-nag/app/database"
	"github.com/draftnag/draft-nag/app/mailer"
	"github.com/draftnag/draft-nag/app/reminder"
	"github.com/draftnag/draft-nag/app/schedule"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if config == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if config.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Draft Nag server", "version", config.Version)

	db, err := database.NewConnection(config.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", config.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", config.DBPath, "schema_version", version, "dirty", dirty)

	settingsRepo := database.NewSettingsRepository(db)
	postRepo := database.NewPostRepository(db)
	userRepo := database.NewUserRepository(db)

	store := reminder.NewStore(settingsRepo)

	templates, err := reminder.LoadTemplates(config.TemplatesFile)
	if err != nil {
		slog.Error("Failed to load message templates", "file", config.TemplatesFile, "error", err)
		os.Exit(1)
	}

	baseURL := config.BaseUrl
	if baseURL == "" {
		baseURL = "http://localhost:" + config.Port
	}

	builder := reminder.NewBuilder(postRepo, templates, config.SiteName, baseURL)
	runner := reminder.NewRunner(userRepo, builder, mailer.NewMailer(), store)

	jobs := schedule.NewScheduler()
	jobs.Register(reminder.JobName, func(now time.Time) {
		if _, err := runner.Run(now, false); err != nil {
			slog.Error("Scheduled dispatch pass failed", "error", err)
		}
	})
	jobs.Start()
	defer jobs.Stop()

	planner := reminder.NewPlanner(store, jobs)
	if err := planner.EnsureScheduled(time.Now()); err != nil {
		slog.Warn("Failed to schedule reminder job", "error", err)
	}

	apiHandler := api.NewHandler(runner, planner, store, jobs, userRepo, postRepo,
		config.SiteName, config.Version)
	server := api.NewServer(apiHandler, config.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", config.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
