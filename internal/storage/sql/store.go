// Package sql provides a Storage backed by SQLite or PostgreSQL.
package sql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// wrapUniqueError converts UNIQUE violations to domain.ErrAlreadyExists.
func wrapUniqueError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

var _ storage.Storage = (*Store)(nil)

// New creates a new SQL store and migrates it.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, driver: s.driver}, nil
}

// Tx wraps a database transaction.
type Tx struct {
	tx     *sqlx.Tx
	driver string
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Close is a no-op for transactions (they should be committed or rolled back).
func (t *Tx) Close() error {
	return nil
}

// BeginTx is not supported within a transaction.
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, fmt.Errorf("nested transactions not supported")
}

// helper to get the correct database interface
type dbInterface interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ============================================
// Template Versions
// ============================================

const versionColumns = `id, stack_name, version_number, format, digest, rendered, created_at`

func createTemplateVersion(ctx context.Context, db dbInterface, version *domain.TemplateVersion) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO template_versions (`+versionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		version.ID, version.StackName, version.VersionNumber, version.Format,
		version.Digest, version.Rendered, version.CreatedAt.UTC())
	return wrapUniqueError(err)
}

func (s *Store) CreateTemplateVersion(ctx context.Context, version *domain.TemplateVersion) error {
	return createTemplateVersion(ctx, s.db, version)
}

func (t *Tx) CreateTemplateVersion(ctx context.Context, version *domain.TemplateVersion) error {
	return createTemplateVersion(ctx, t.tx, version)
}

func getTemplateVersion(ctx context.Context, db dbInterface, id string) (*domain.TemplateVersion, error) {
	var version domain.TemplateVersion
	err := db.GetContext(ctx, &version,
		`SELECT `+versionColumns+` FROM template_versions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (s *Store) GetTemplateVersion(ctx context.Context, id string) (*domain.TemplateVersion, error) {
	return getTemplateVersion(ctx, s.db, id)
}

func (t *Tx) GetTemplateVersion(ctx context.Context, id string) (*domain.TemplateVersion, error) {
	return getTemplateVersion(ctx, t.tx, id)
}

func getLatestTemplateVersion(ctx context.Context, db dbInterface, stackName string) (*domain.TemplateVersion, error) {
	var version domain.TemplateVersion
	err := db.GetContext(ctx, &version,
		`SELECT `+versionColumns+` FROM template_versions
		 WHERE stack_name = $1 ORDER BY version_number DESC LIMIT 1`, stackName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (s *Store) GetLatestTemplateVersion(ctx context.Context, stackName string) (*domain.TemplateVersion, error) {
	return getLatestTemplateVersion(ctx, s.db, stackName)
}

func (t *Tx) GetLatestTemplateVersion(ctx context.Context, stackName string) (*domain.TemplateVersion, error) {
	return getLatestTemplateVersion(ctx, t.tx, stackName)
}

func listTemplateVersions(ctx context.Context, db dbInterface, stackName string, limit, offset int) ([]*domain.TemplateVersion, error) {
	versions := []*domain.TemplateVersion{}
	err := db.SelectContext(ctx, &versions,
		`SELECT `+versionColumns+` FROM template_versions
		 WHERE stack_name = $1 ORDER BY version_number DESC LIMIT $2 OFFSET $3`, stackName, limit, offset)
	return versions, err
}

func (s *Store) ListTemplateVersions(ctx context.Context, stackName string, limit, offset int) ([]*domain.TemplateVersion, error) {
	return listTemplateVersions(ctx, s.db, stackName, limit, offset)
}

func (t *Tx) ListTemplateVersions(ctx context.Context, stackName string, limit, offset int) ([]*domain.TemplateVersion, error) {
	return listTemplateVersions(ctx, t.tx, stackName, limit, offset)
}
