// Package service runs synthesis end to end and records template history.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/output"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/storage"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/synth"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
	"go.uber.org/zap"
)

// Rendering is an encoded template that has not been recorded.
type Rendering struct {
	StackName string
	Format    template.Format
	Data      []byte
	Digest    string
}

// SynthService renders the stack template, records versions and writes output.
type SynthService struct {
	synth  *synth.Synthesizer
	store  storage.Storage
	logger *zap.Logger
	now    func() time.Time

	// mu serializes recording so version numbers stay sequential.
	mu sync.Mutex
}

// NewSynthService creates a new SynthService.
func NewSynthService(s *synth.Synthesizer, store storage.Storage, logger *zap.Logger) *SynthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SynthService{
		synth:  s,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// StackName returns the name of the stack this service renders.
func (s *SynthService) StackName() string {
	return s.synth.Settings().StackName()
}

// Preview renders the template without recording it.
func (s *SynthService) Preview(ctx context.Context, variants []domain.Variant, format template.Format) (*Rendering, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	def, err := s.synth.Synth(variants)
	if err != nil {
		return nil, fmt.Errorf("synthesizing stack: %w", err)
	}

	tmpl, err := template.FromStack(def)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	data, err := template.Encode(tmpl, format)
	if err != nil {
		return nil, err
	}

	return &Rendering{
		StackName: def.Name,
		Format:    format,
		Data:      data,
		Digest:    output.Digest(data),
	}, nil
}

// Run renders the template and records it as a new version unless the latest
// recorded version has the same digest. When w is not nil the template is
// written to it after recording succeeded.
func (s *SynthService) Run(ctx context.Context, variants []domain.Variant, format template.Format, w output.TemplateWriter) (*domain.SynthResult, error) {
	rendering, err := s.Preview(ctx, variants, format)
	if err != nil {
		return nil, err
	}

	result, err := s.record(ctx, rendering)
	if err != nil {
		return nil, err
	}

	if w != nil {
		path, err := w.WriteTemplate(ctx, rendering.StackName, rendering.Format, rendering.Data)
		if err != nil {
			return nil, fmt.Errorf("writing template: %w", err)
		}
		result.Path = path
	}

	s.logger.Info("synth complete",
		zap.String("stack", result.StackName),
		zap.Int("version", result.VersionNumber),
		zap.String("status", result.Status),
		zap.String("format", string(format)))

	return result, nil
}

// record stores rendering as the next version of its stack.
func (s *SynthService) record(ctx context.Context, rendering *Rendering) (*domain.SynthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Get next version number
	nextVersion := 1
	latest, err := tx.GetLatestTemplateVersion(ctx, rendering.StackName)
	switch {
	case err == nil:
		if latest.Digest == rendering.Digest {
			return &domain.SynthResult{
				StackName:     latest.StackName,
				VersionID:     latest.ID,
				VersionNumber: latest.VersionNumber,
				Digest:        latest.Digest,
				Status:        domain.SynthStatusUnchanged,
			}, nil
		}
		nextVersion = latest.VersionNumber + 1
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("reading latest version: %w", err)
	}

	version := &domain.TemplateVersion{
		ID:            uuid.New().String(),
		StackName:     rendering.StackName,
		VersionNumber: nextVersion,
		Format:        string(rendering.Format),
		Digest:        rendering.Digest,
		Rendered:      string(rendering.Data),
		CreatedAt:     s.now().UTC(),
	}

	if err := tx.CreateTemplateVersion(ctx, version); err != nil {
		return nil, fmt.Errorf("recording version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing version: %w", err)
	}

	return &domain.SynthResult{
		StackName:     version.StackName,
		VersionID:     version.ID,
		VersionNumber: version.VersionNumber,
		Digest:        version.Digest,
		Status:        domain.SynthStatusCreated,
	}, nil
}

// Restore writes a recorded version back to w, unchanged.
func (s *SynthService) Restore(ctx context.Context, versionID string, w output.TemplateWriter) (*domain.SynthResult, error) {
	version, err := s.store.GetTemplateVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	path, err := w.WriteTemplate(ctx, version.StackName, template.Format(version.Format), []byte(version.Rendered))
	if err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}

	s.logger.Info("template restored",
		zap.String("stack", version.StackName),
		zap.Int("version", version.VersionNumber),
		zap.String("path", path))

	return &domain.SynthResult{
		StackName:     version.StackName,
		VersionID:     version.ID,
		VersionNumber: version.VersionNumber,
		Digest:        version.Digest,
		Status:        domain.SynthStatusRestored,
		Path:          path,
	}, nil
}

// ListVersions lists recorded versions of this service's stack, newest first.
func (s *SynthService) ListVersions(ctx context.Context, limit, offset int) ([]*domain.TemplateVersion, error) {
	if limit <= 0 || offset < 0 {
		return nil, fmt.Errorf("limit must be positive and offset non-negative: %w", domain.ErrInvalidInput)
	}
	return s.store.ListTemplateVersions(ctx, s.StackName(), limit, offset)
}

// GetVersion returns one recorded version.
func (s *SynthService) GetVersion(ctx context.Context, id string) (*domain.TemplateVersion, error) {
	return s.store.GetTemplateVersion(ctx, id)
}
