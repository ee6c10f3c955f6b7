package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"github.com/clubsuite/matchsheet/internal/blob"
	"github.com/clubsuite/matchsheet/internal/config"
	"github.com/clubsuite/matchsheet/internal/export"
	"github.com/clubsuite/matchsheet/internal/fill"
	"github.com/clubsuite/matchsheet/internal/mapping"
	"github.com/clubsuite/matchsheet/internal/pdf"
	"github.com/clubsuite/matchsheet/internal/records"
	"github.com/clubsuite/matchsheet/internal/server"
	"github.com/clubsuite/matchsheet/internal/sheet"
)

var version = "dev" // set by build flags

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg)
	logger.Info("starting matchsheetd", "version", version, "host", cfg.Host, "port", cfg.Port)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := records.Open(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := records.InitSchema(ctx, db); err != nil {
		return err
	}

	mappings := mapping.NewSQLStore(db, logger)
	if err := mappings.InitSchema(ctx); err != nil {
		return err
	}

	blobs, err := blob.NewStore(afero.NewOsFs(), cfg.DataDir)
	if err != nil {
		return err
	}

	proposer, err := mapping.NewProposer(mapping.ProposerConfig{
		BaseURL: cfg.ClassifierURL,
		APIKey:  cfg.ClassifierAPIKey,
		Timeout: cfg.ClassifierTimeout,
	}, logger)
	if err != nil {
		return err
	}

	players := records.NewPlayerRepository(db, logger)
	coaches := records.NewCoachRepository(db, logger)
	tournaments := records.NewTournamentRepository(db, logger)
	templates := records.NewTemplateRepository(db, logger)
	categories := records.NewAgeCategoryRepository(db, logger)
	sheets := records.NewMatchSheetRepository(db, logger)

	service := sheet.NewService(sheet.Deps{
		Inspector:   pdf.NewInspector(),
		Extractor:   pdf.NewExtractor(),
		Validator:   pdf.NewValidator(cfg.MaxUploadSize),
		Engine:      fill.NewEngine(cfg.ClubName, logger),
		Proposer:    proposer,
		Mappings:    mappings,
		Blobs:       blobs,
		Exporter:    export.NewExporter(blobs, logger),
		Players:     players,
		Coaches:     coaches,
		Tournaments: tournaments,
		Templates:   templates,
		Categories:  categories,
		Sheets:      sheets,
		Logger:      logger,
	})

	handler := server.NewHandler(server.HandlerDeps{
		Service:       service,
		Blobs:         blobs,
		Players:       players,
		Coaches:       coaches,
		Tournaments:   tournaments,
		Templates:     templates,
		Categories:    categories,
		Sheets:        sheets,
		MaxUploadSize: cfg.MaxUploadSize,
		Logger:        logger,
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.SetupRoutes(engine)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		<-serverErrCh
		return nil
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// setupLogging configures the process logger from the configured level.
func setupLogging(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
