package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/garden/internal/media"
	"github.com/mesh-intelligence/garden/internal/server"
	"github.com/mesh-intelligence/garden/internal/sqlite"
	"github.com/mesh-intelligence/garden/pkg/garden"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the garden HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(resolveConfigDir())
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve:", err)
		os.Exit(exitSysError)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve:", err)
		os.Exit(exitUserError)
	}
	defer log.Sync()
	sugar := log.Sugar()

	dbPath, err := databasePath(cfg)
	if err != nil {
		return err
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := media.NewImporter(cfg.MediaDir, nil, sugar)
	if err != nil {
		return err
	}

	svc := garden.NewService(db.Channels(), db.Blocks(), db.Connections(), sugar)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(svc, importer, sugar).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("server listening", "addr", cfg.ListenAddr, "database", dbPath, "media", cfg.MediaDir)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		sugar.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// newLogger builds a production zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
