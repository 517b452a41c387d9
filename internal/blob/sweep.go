package blob

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepGrace keeps blobs young enough to belong to a create that has
// not inserted its record yet.
const DefaultSweepGrace = time.Hour

type SweepOptions struct {
	Grace  time.Duration
	DryRun bool
	Now    func() time.Time
}

type SweepResult struct {
	Scanned    int
	Referenced int
	TooYoung   int
	Removed    []string
	Failed     int
}

// Sweep removes blobs that no record references and that are older than
// opts.Grace. referenced lists every path the metadata store points at.
func Sweep(ctx context.Context, s *Store, referenced []string, opts SweepOptions, log *zap.Logger) (SweepResult, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Grace < 0 {
		return SweepResult{}, fmt.Errorf("negative grace period %s", opts.Grace)
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[filepath.Clean(p)] = struct{}{}
	}

	entries, err := s.List()
	if err != nil {
		return SweepResult{}, fmt.Errorf("list blobs: %w", err)
	}

	var res SweepResult
	cutoff := opts.Now().Add(-opts.Grace)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Scanned++

		if _, ok := keep[e.Path]; ok {
			res.Referenced++
			continue
		}
		if e.ModTime.After(cutoff) {
			res.TooYoung++
			continue
		}

		if opts.DryRun {
			log.Info("would remove orphan blob", zap.String("path", e.Path), zap.Int64("size", e.Size))
			res.Removed = append(res.Removed, e.Path)
			continue
		}
		if err := s.Remove(e.Path); err != nil {
			log.Warn("failed to remove orphan blob", zap.String("path", e.Path), zap.Error(err))
			res.Failed++
			continue
		}
		log.Info("removed orphan blob", zap.String("path", e.Path), zap.Int64("size", e.Size))
		res.Removed = append(res.Removed, e.Path)
	}
	return res, nil
}
