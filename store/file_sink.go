package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileSink keeps the snapshot in a single JSON file. Save writes a
// temporary file next to it and renames it over the canonical path, so a
// crash mid-write leaves either the old or the new complete snapshot.
type FileSink struct {
	path string
}

func NewFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	return &FileSink{path: path}, nil
}

func (f *FileSink) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *FileSink) Save(ctx context.Context, data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Backup renames the snapshot aside. The uuid suffix keeps two backups
// taken within the same second from colliding.
func (f *FileSink) Backup(ctx context.Context) error {
	backup := fmt.Sprintf("%s.bak_%s_%s", f.path, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	return os.Rename(f.path, backup)
}

func (f *FileSink) Close() error {
	return nil
}

// Path is where the canonical snapshot lives.
func (f *FileSink) Path() string {
	return f.path
}
