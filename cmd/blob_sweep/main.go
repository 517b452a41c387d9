// Command blob_sweep removes stored payloads that no file record points at,
// such as blobs left behind when a create failed between its two writes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filesmanager/internal/blob"
	"filesmanager/internal/config"
	"filesmanager/internal/database"
	"filesmanager/internal/pkg/logging"

	"go.uber.org/zap"
)

func main() {
	grace := flag.Duration("grace", blob.DefaultSweepGrace, "only remove blobs older than this")
	dryRun := flag.Bool("dry-run", false, "report orphans without removing them")
	flag.Parse()

	if err := run(*grace, *dryRun); err != nil {
		fmt.Fprintln(os.Stderr, "blob sweep failed:", err)
		os.Exit(1)
	}
}

func run(grace time.Duration, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBDatabase, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = stores.Close(context.Background()) }()

	blobs, err := blob.NewStore(cfg.FolderPath)
	if err != nil {
		return err
	}

	// read references before listing blobs so a concurrent create is either
	// referenced or younger than the grace period
	referenced, err := stores.Files.ListLocalPaths(ctx)
	if err != nil {
		return fmt.Errorf("list referenced paths: %w", err)
	}

	res, err := blob.Sweep(ctx, blobs, referenced, blob.SweepOptions{Grace: grace, DryRun: dryRun}, log)
	if err != nil {
		return err
	}

	log.Info("blob sweep completed",
		zap.String("root", blobs.Root()),
		zap.Bool("dry_run", dryRun),
		zap.Int("scanned", res.Scanned),
		zap.Int("referenced", res.Referenced),
		zap.Int("too_young", res.TooYoung),
		zap.Int("removed", len(res.Removed)),
		zap.Int("failed", res.Failed),
	)
	if res.Failed > 0 {
		return fmt.Errorf("%d blobs could not be removed", res.Failed)
	}
	return nil
}
