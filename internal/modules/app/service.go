package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Counter reports the number of stored records.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Status struct {
	Cache bool `json:"cache"`
	DB    bool `json:"db"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// Service answers liveness and size questions about the stores.
type Service struct {
	cache Pinger
	db    Pinger
	users Counter
	files Counter
	log   *zap.Logger
}

func NewService(cache, db Pinger, users, files Counter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cache: cache, db: db, users: users, files: files, log: log}
}

func (s *Service) Status(ctx context.Context) Status {
	return Status{
		Cache: s.alive(ctx, "cache", s.cache),
		DB:    s.alive(ctx, "db", s.db),
	}
}

func (s *Service) alive(ctx context.Context, name string, p Pinger) bool {
	if err := p.Ping(ctx); err != nil {
		s.log.Warn("store not alive", zap.String("store", name), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	files, err := s.files.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count files: %w", err)
	}
	return Stats{Users: users, Files: files}, nil
}
