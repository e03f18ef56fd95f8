// Package storage provides the output tree for dataset variants.
// It defines the Storage interface (port) and implementations for local
// disk and for local disk mirrored to S3.
package storage

import (
	"context"
)

// Storage defines the interface for variant output trees. Variants are built
// in a staging directory and committed into place only when complete, so a
// present variant root always means a finished variant.
type Storage interface {
	// Root returns the directory that holds variant trees.
	Root() string

	// Exists reports whether the variant named name has been committed.
	Exists(ctx context.Context, name string) (bool, error)

	// Stage creates an empty staging tree for name containing dirs and
	// returns its path. A stale staging tree from an earlier run is replaced.
	Stage(ctx context.Context, name string, dirs []string) (string, error)

	// Commit moves a staging tree into place as name and returns the final path.
	Commit(ctx context.Context, staged, name string) (string, error)

	// Discard removes a staging tree.
	Discard(ctx context.Context, staged string) error

	// CopyFile copies src to dst byte for byte.
	CopyFile(ctx context.Context, src, dst string) error

	// Publish uploads the committed variant name and returns the number of
	// uploaded objects. Returns ErrS3NotConfigured if S3 is not configured.
	Publish(ctx context.Context, name string) (int, error)
}
