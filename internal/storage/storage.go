// Package storage defines the template history store.
package storage

import (
	"context"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
)

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// Template Versions
	CreateTemplateVersion(ctx context.Context, version *domain.TemplateVersion) error
	GetTemplateVersion(ctx context.Context, id string) (*domain.TemplateVersion, error)
	GetLatestTemplateVersion(ctx context.Context, stackName string) (*domain.TemplateVersion, error)
	ListTemplateVersions(ctx context.Context, stackName string, limit, offset int) ([]*domain.TemplateVersion, error)

	// Transaction support
	BeginTx(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Storage
	Commit() error
	Rollback() error
}
