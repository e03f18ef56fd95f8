package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Static errors for storage operations.
var (
	// ErrS3NotConfigured is returned when publishing is attempted
	// without S3 configuration.
	ErrS3NotConfigured = errors.New("S3 storage is not configured")
	// ErrAlreadyExists is returned when committing over an existing variant.
	ErrAlreadyExists = errors.New("variant already exists")
)

// Compile-time check that LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)

// LocalStorage implements the Storage interface using local disk.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates a new LocalStorage rooted at root.
// The root must already exist: it holds the source recordings.
func NewLocalStorage(root string) (*LocalStorage, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat data root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data root %s is not a directory", root)
	}
	return &LocalStorage{root: root}, nil
}

// Root returns the directory that holds variant trees.
func (s *LocalStorage) Root() string {
	return s.root
}

// Exists reports whether the variant directory is present.
func (s *LocalStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	_, err := os.Stat(filepath.Join(s.root, name))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat variant %s: %w", name, err)
	}
}

// Stage creates {root}/.{name}.partial with the given subdirectories.
func (s *LocalStorage) Stage(ctx context.Context, name string, dirs []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	staged := filepath.Join(s.root, "."+name+".partial")
	if err := os.RemoveAll(staged); err != nil {
		return "", fmt.Errorf("remove stale staging dir: %w", err)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(staged, d), 0o750); err != nil {
			return "", fmt.Errorf("create staging dir: %w", err)
		}
	}
	if len(dirs) == 0 {
		if err := os.MkdirAll(staged, 0o750); err != nil {
			return "", fmt.Errorf("create staging dir: %w", err)
		}
	}
	return staged, nil
}

// Commit renames the staging tree to {root}/{name}.
func (s *LocalStorage) Commit(ctx context.Context, staged, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	final := filepath.Join(s.root, name)
	if _, err := os.Stat(final); err == nil {
		return "", fmt.Errorf("commit %s: %w", name, ErrAlreadyExists)
	}
	if err := os.Rename(staged, final); err != nil {
		return "", fmt.Errorf("commit %s: %w", name, err)
	}
	return final, nil
}

// Discard removes a staging tree. It does not check the context so that it
// can run after cancellation.
func (s *LocalStorage) Discard(_ context.Context, staged string) error {
	if err := os.RemoveAll(staged); err != nil {
		return fmt.Errorf("remove staging dir: %w", err)
	}
	return nil
}

// CopyFile copies src to dst, removing dst if the copy fails.
func (s *LocalStorage) CopyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	in, err := os.Open(src) // #nosec G304 - path comes from the dataset tree
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 - path is built by the caller
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy file: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close destination file: %w", err)
	}
	return nil
}

// Publish is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) Publish(_ context.Context, _ string) (int, error) {
	return 0, ErrS3NotConfigured
}
