package database

import (
	"context"
	"fmt"

	"filesmanager/internal/domain"
	"filesmanager/internal/repository"
	"filesmanager/internal/repository/mongostore"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserStore is implemented by the gorm and the mongo user repositories.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// FileStore is implemented by the gorm and the mongo file repositories.
type FileStore interface {
	Create(ctx context.Context, f *domain.File) error
	GetByID(ctx context.Context, id string) (*domain.File, error)
	GetByIDAndOwner(ctx context.Context, id, userID string) (*domain.File, error)
	ListByParent(ctx context.Context, parentID string, offset, limit int) ([]*domain.File, error)
	UpdateVisibility(ctx context.Context, id string, isPublic bool) error
	Count(ctx context.Context) (int64, error)
	ListLocalPaths(ctx context.Context) ([]string, error)
}

// Stores bundles the metadata repositories of one backend.
type Stores struct {
	Users UserStore
	Files FileStore

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open picks the backend from dsn, prepares its schema or indexes and
// returns its repositories. mongoDatabase names the database when the
// mongo URL has no path.
func Open(ctx context.Context, dsn, mongoDatabase string, log *zap.Logger) (*Stores, error) {
	if IsMongo(dsn) {
		return openMongo(ctx, dsn, mongoDatabase, log)
	}

	db, err := Connect(dsn, log)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return newGormStores(db), nil
}

func newGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Users: repository.NewUserRepository(db),
		Files: repository.NewFileRepository(db),
		ping:  func(ctx context.Context) error { return Ping(ctx, db) },
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func openMongo(ctx context.Context, uri, database string, log *zap.Logger) (*Stores, error) {
	if name := mongostore.DatabaseFromURI(uri); name != "" {
		database = name
	}
	log.Info("connecting to MongoDB", zap.String("database", database))

	db, err := mongostore.Connect(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}
	return newMongoStores(db), nil
}

func newMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Users: mongostore.NewUserRepository(db),
		Files: mongostore.NewFileRepository(db),
		ping:  func(ctx context.Context) error { return mongostore.Ping(ctx, db) },
		close: func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	}
}
