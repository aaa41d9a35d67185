package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/JaimeStill/color-lab/pkg/lifecycle"
)

// StoredFile describes a persisted upload.
type StoredFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Reader is the read-only view of the store handed to consumers that only
// need to inspect file content.
type Reader interface {
	// Load opens the stored file for reading. The caller closes it.
	Load(ctx context.Context, name string) (io.ReadCloser, error)

	// Retrieve returns the complete content of the stored file.
	Retrieve(ctx context.Context, name string) ([]byte, error)

	// Exists reports whether name resolves to a readable stored file.
	Exists(ctx context.Context, name string) bool
}

// System is the complete store.
type System interface {
	Reader

	// Init ensures the storage root exists. Safe to call repeatedly.
	Init() error

	// Start registers Init as a lifecycle startup hook.
	Start(lc *lifecycle.Coordinator) error

	// Store writes data under a freshly generated name derived from the
	// extension of originalName and returns that name.
	// Returns ErrPathTraversal if originalName contains a ".." segment.
	Store(ctx context.Context, data []byte, originalName string) (string, error)

	// Delete removes the stored file. Missing files are not an error.
	Delete(ctx context.Context, name string) error

	// Size returns the stored file length in bytes.
	Size(ctx context.Context, name string) (int64, error)

	// Info returns the stored file attributes.
	Info(ctx context.Context, name string) (*StoredFile, error)
}

// Extension returns the lower-cased suffix of name starting at the last dot,
// or "" when name has no dot. Only the final path element is considered.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i:])
}
