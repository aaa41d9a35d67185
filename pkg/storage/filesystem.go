package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/color-lab/pkg/lifecycle"
	"github.com/google/uuid"
)

const storedNameLayout = "20060102_150405"

type filesystem struct {
	basePath string
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a filesystem store rooted at cfg.BasePath.
// The base path is resolved to an absolute path during construction;
// directory creation is deferred to Init.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	return &filesystem{
		basePath: absPath,
		now:      time.Now,
		logger:   logger.With("system", "storage"),
	}, nil
}

func (f *filesystem) Init() error {
	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}
	return nil
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage system", "base_path", f.basePath)

	lc.OnStartup(func() {
		if err := f.Init(); err != nil {
			f.logger.Error("storage initialization failed", "error", err)
			lc.Fail("storage", err)
			return
		}
		f.logger.Info("storage directory initialized")
	})

	return nil
}

func (f *filesystem) Store(ctx context.Context, data []byte, originalName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalized := strings.ReplaceAll(originalName, `\`, "/")
	if hasParentSegment(normalized) {
		f.logger.Error(
			"path traversal attempt rejected",
			"security", true,
			"original_name", originalName,
		)
		return "", ErrPathTraversal
	}

	name := f.now().Format(storedNameLayout) + "_" + uuid.New().String()[:8] + Extension(path.Clean(normalized))

	target, err := f.resolve(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(f.basePath, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	f.logger.Debug("file stored", "stored_name", name, "size", len(data))
	return name, nil
}

func (f *filesystem) Load(ctx context.Context, name string) (io.ReadCloser, error) {
	p, err := f.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		file.Close()
		return nil, ErrNotFound
	}

	return file, nil
}

func (f *filesystem) Retrieve(ctx context.Context, name string) ([]byte, error) {
	rc, err := f.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (f *filesystem) Delete(ctx context.Context, name string) error {
	p, err := f.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove file: %w", err)
	}

	f.logger.Debug("file deleted", "stored_name", name)
	return nil
}

func (f *filesystem) Exists(ctx context.Context, name string) bool {
	info, err := f.stat(name)
	return err == nil && info.Mode().IsRegular()
}

func (f *filesystem) Size(ctx context.Context, name string) (int64, error) {
	info, err := f.Info(ctx, name)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (f *filesystem) Info(ctx context.Context, name string) (*StoredFile, error) {
	info, err := f.stat(name)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	return &StoredFile{
		Name:      name,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

func (f *filesystem) stat(name string) (fs.FileInfo, error) {
	p, err := f.resolve(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return info, nil
}

// resolve maps a stored name to its absolute path, verifying the result stays
// directly inside the storage root.
func (f *filesystem) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return "", ErrInvalidName
	}

	full := filepath.Clean(filepath.Join(f.basePath, name))

	rel, err := filepath.Rel(f.basePath, full)
	if err != nil || rel == "." || rel != filepath.Base(full) || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidName
	}

	return full, nil
}

func hasParentSegment(name string) bool {
	return slices.Contains(strings.Split(name, "/"), "..")
}
