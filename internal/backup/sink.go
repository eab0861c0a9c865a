// Package backup stores planner snapshots outside the key-value store.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives named backup documents
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// FileSink writes backups into a local directory
type FileSink struct {
	dir string
}

// NewFileSink creates the directory if needed
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "./backups"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Dir returns the backup directory
func (s *FileSink) Dir() string {
	return s.dir
}

// Put writes data to dir/name, replacing an earlier backup of the same name.
// The file is written under a temporary name first and renamed into place.
func (s *FileSink) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name %q", name)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move backup into place: %w", err)
	}
	return nil
}
