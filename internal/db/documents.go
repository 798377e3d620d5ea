package db

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/khelwa/internal/models"
	"github.com/stwalsh4118/khelwa/internal/store"
	"gorm.io/gorm/clause"
)

// Document namespaces
const (
	NamespaceCatalogs = "catalogs"
	NamespaceIndex    = "index"
)

// DocumentStore implements store.KV over the documents table, scoped to one namespace
type DocumentStore struct {
	db        *DB
	namespace string
}

// NewDocumentStore creates a key-value view of the documents in namespace
func NewDocumentStore(db *DB, namespace string) *DocumentStore {
	return &DocumentStore{db: db, namespace: namespace}
}

// Get retrieves a document body by key
func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc models.Document
	result := s.db.WithContext(ctx).
		Where("namespace = ? AND doc_key = ?", s.namespace, key).
		First(&doc)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return doc.Body, nil
}

// Put inserts or replaces the document body for key
func (s *DocumentStore) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}

	doc := models.Document{
		Namespace: s.namespace,
		Key:       key,
		Body:      value,
		UpdatedAt: time.Now().UTC(),
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert document: %w", MapGormError(result.Error))
	}
	return nil
}

// ListKeys returns all keys in the namespace, sorted
func (s *DocumentStore) ListKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	result := s.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("namespace = ?", s.namespace).
		Order("doc_key ASC").
		Pluck("doc_key", &keys)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list documents: %w", MapGormError(result.Error))
	}
	return keys, nil
}

// Health checks database connectivity
func (s *DocumentStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}
