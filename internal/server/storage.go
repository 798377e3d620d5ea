package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stwalsh4118/khelwa/internal/config"
	"github.com/stwalsh4118/khelwa/internal/db"
	"github.com/stwalsh4118/khelwa/internal/logger"
	"github.com/stwalsh4118/khelwa/internal/store"
)

// Storage bundles the repositories of the configured backend
type Storage struct {
	Backend  string
	Catalogs *store.CatalogStore
	Index    *store.IndexStore

	health func(ctx context.Context) error
	close  func() error
}

// Health checks the backend
func (s *Storage) Health(ctx context.Context) error {
	return s.health(ctx)
}

// Close releases the backend
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage opens the backend selected by cfg.Backend
func OpenStorage(cfg *config.StorageConfig) (*Storage, error) {
	switch cfg.Backend {
	case config.StorageBackendFile:
		return openFileStorage(cfg), nil
	case config.StorageBackendSQLite:
		return openSQLiteStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func openFileStorage(cfg *config.StorageConfig) *Storage {
	catalogs := store.NewFileKV(cfg.CatalogDir)

	logger.Log.Info().
		Str("catalog_dir", cfg.CatalogDir).
		Str("index_path", cfg.IndexPath).
		Msg("Using file storage")

	return &Storage{
		Backend:  config.StorageBackendFile,
		Catalogs: store.NewCatalogStore(catalogs),
		Index:    store.NewFileIndexStore(cfg.IndexPath),
		health:   catalogs.Health,
	}
}

func openSQLiteStorage(cfg *config.StorageConfig) (*Storage, error) {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		return nil, errors.Join(err, database.Close())
	}
	if err := db.RunMigrations(sqlDB, cfg.MigrationsPath); err != nil {
		return nil, errors.Join(err, database.Close())
	}

	logger.Log.Info().
		Str("database_path", cfg.DatabasePath).
		Msg("Using SQLite storage")

	return &Storage{
		Backend:  config.StorageBackendSQLite,
		Catalogs: store.NewCatalogStore(db.NewDocumentStore(database, db.NamespaceCatalogs)),
		Index:    store.NewIndexStore(db.NewDocumentStore(database, db.NamespaceIndex)),
		health:   database.Health,
		close:    database.Close,
	}, nil
}
