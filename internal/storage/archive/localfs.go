package archive

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quantlab/flowdesk/internal/core"
)

// LocalFS archives blobs as files under a base directory.
type LocalFS struct {
	base string
}

func NewLocalFS(base string) (*LocalFS, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return &LocalFS{base: base}, nil
}

func (l *LocalFS) path(key string) string {
	return filepath.Join(l.base, filepath.FromSlash(key))
}

func (l *LocalFS) Put(ctx context.Context, key string, data []byte) error {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}

func (l *LocalFS) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(l.path(key))
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return data, nil
}

func (l *LocalFS) List(ctx context.Context, prefix string) ([]string, error) {
	root := l.path(prefix)
	var keys []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.base, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return keys, nil
}

func (l *LocalFS) Delete(ctx context.Context, key string) error {
	if err := os.Remove(l.path(key)); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}

func (l *LocalFS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(l.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, core.WrapError(core.ErrArchiveFailed, err)
	}
	return true, nil
}
