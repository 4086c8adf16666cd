// Package output writes encoded templates to their destination.
package output

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
	"go.uber.org/zap"
)

// TemplateWriter stores encoded templates.
type TemplateWriter interface {
	// WriteTemplate writes data and returns where it went.
	WriteTemplate(ctx context.Context, stackName string, format template.Format, data []byte) (string, error)
	// ReadTemplate returns the last written template and its digest.
	ReadTemplate(ctx context.Context, stackName string, format template.Format) ([]byte, string, error)
}

// Digest returns the hex sha256 of data.
func Digest(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// FileName returns the file name of a stack's template, e.g. Stack-PROD.template.json.
func FileName(stackName string, format template.Format) string {
	return stackName + ".template." + format.Extension()
}

// FileWriter writes templates into a directory.
type FileWriter struct {
	dir    string
	logger *zap.Logger
	mu     sync.RWMutex
}

var _ TemplateWriter = (*FileWriter)(nil)

// NewFileWriter creates a writer rooted at dir. The directory is created on first write.
func NewFileWriter(dir string, logger *zap.Logger) *FileWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileWriter{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (f *FileWriter) Dir() string {
	return f.dir
}

// WriteTemplate replaces the template file atomically.
func (f *FileWriter) WriteTemplate(ctx context.Context, stackName string, format template.Format, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(f.dir, FileName(stackName, format))
	tmp, err := os.CreateTemp(f.dir, ".template-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing template: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing template: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing template: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("replacing template file: %w", err)
	}

	digest := Digest(data)
	f.logger.Info("template written",
		zap.String("path", path),
		zap.String("digest", digest[:12]),
		zap.Int("bytes", len(data)))

	return path, nil
}

// ReadTemplate reads the template file. A missing file is domain.ErrNotFound.
func (f *FileWriter) ReadTemplate(ctx context.Context, stackName string, format template.Format) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(f.dir, FileName(stackName, format)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("reading template file: %w", err)
	}
	return data, Digest(data), nil
}

// StreamWriter writes templates to a stream, such as stdout.
type StreamWriter struct {
	w    io.Writer
	mu   sync.Mutex
	last map[string][]byte
}

var _ TemplateWriter = (*StreamWriter)(nil)

// NewStreamWriter creates a writer over w.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w, last: make(map[string][]byte)}
}

// WriteTemplate copies data to the stream.
func (s *StreamWriter) WriteTemplate(ctx context.Context, stackName string, format template.Format, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(data); err != nil {
		return "", fmt.Errorf("writing template: %w", err)
	}
	s.last[FileName(stackName, format)] = append([]byte(nil), data...)
	return "-", nil
}

// ReadTemplate returns what this writer last wrote for the stack.
func (s *StreamWriter) ReadTemplate(ctx context.Context, stackName string, format template.Format) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.last[FileName(stackName, format)]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return append([]byte(nil), data...), Digest(data), nil
}
