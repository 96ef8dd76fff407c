// Package storage archives generated report files so past runs survive
// the next analysis. A local directory tree is the default; S3 serves
// deployed environments.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adscope/meta-ads-monitor/internal/config"
)

// Archiver stores a finished report file under a client/date key.
type Archiver interface {
	Archive(ctx context.Context, client string, path string) error
}

// New builds the archiver the configuration asks for.
func New(cfg *config.Config) (Archiver, error) {
	switch cfg.Storage.Type {
	case "s3":
		return NewS3Archiver(cfg.Storage)
	case "local", "":
		return NewLocalArchiver(cfg.Storage.LocalPath), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

// LocalArchiver copies report files into a per-client, per-date
// directory tree under the base path.
type LocalArchiver struct {
	base string
	now  func() time.Time
}

// NewLocalArchiver creates an archiver rooted at base.
func NewLocalArchiver(base string) *LocalArchiver {
	return &LocalArchiver{base: base, now: time.Now}
}

// Archive copies the file to base/client/YYYY-MM-DD/filename.
func (a *LocalArchiver) Archive(_ context.Context, client string, path string) error {
	dir := filepath.Join(a.base, client, a.now().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("creating archive copy: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying report: %w", err)
	}
	return nil
}
