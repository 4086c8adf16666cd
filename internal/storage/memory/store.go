// Package memory provides an in-memory Storage for tests and single-shot runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/storage"
)

// Store is an in-memory implementation of the storage interface.
type Store struct {
	mu sync.RWMutex

	versions map[string]*domain.TemplateVersion // key: id
}

var _ storage.Storage = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		versions: make(map[string]*domain.TemplateVersion),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return &Tx{store: s}, nil
}

// Tx is a no-op transaction for in-memory store.
type Tx struct {
	store *Store
}

func (t *Tx) Commit() error   { return nil }
func (t *Tx) Rollback() error { return nil }
func (t *Tx) Close() error    { return nil }

func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return t, nil
}

func (t *Tx) CreateTemplateVersion(ctx context.Context, version *domain.TemplateVersion) error {
	return t.store.CreateTemplateVersion(ctx, version)
}
func (t *Tx) GetTemplateVersion(ctx context.Context, id string) (*domain.TemplateVersion, error) {
	return t.store.GetTemplateVersion(ctx, id)
}
func (t *Tx) GetLatestTemplateVersion(ctx context.Context, stackName string) (*domain.TemplateVersion, error) {
	return t.store.GetLatestTemplateVersion(ctx, stackName)
}
func (t *Tx) ListTemplateVersions(ctx context.Context, stackName string, limit, offset int) ([]*domain.TemplateVersion, error) {
	return t.store.ListTemplateVersions(ctx, stackName, limit, offset)
}

// ============================================
// Template Versions
// ============================================

func (s *Store) CreateTemplateVersion(ctx context.Context, version *domain.TemplateVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.versions[version.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, v := range s.versions {
		if v.StackName == version.StackName && v.VersionNumber == version.VersionNumber {
			return domain.ErrAlreadyExists
		}
	}
	stored := *version
	s.versions[version.ID] = &stored
	return nil
}

func (s *Store) GetTemplateVersion(ctx context.Context, id string) (*domain.TemplateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	version, exists := s.versions[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	out := *version
	return &out, nil
}

func (s *Store) GetLatestTemplateVersion(ctx context.Context, stackName string) (*domain.TemplateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.TemplateVersion
	for _, v := range s.versions {
		if v.StackName != stackName {
			continue
		}
		if latest == nil || v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (s *Store) ListTemplateVersions(ctx context.Context, stackName string, limit, offset int) ([]*domain.TemplateVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := make([]*domain.TemplateVersion, 0, len(s.versions))
	for _, v := range s.versions {
		if v.StackName != stackName {
			continue
		}
		out := *v
		versions = append(versions, &out)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].VersionNumber > versions[j].VersionNumber
	})
	if offset >= len(versions) {
		return []*domain.TemplateVersion{}, nil
	}
	end := offset + limit
	if end > len(versions) {
		end = len(versions)
	}
	return versions[offset:end], nil
}
