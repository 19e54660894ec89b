package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const schemeLocal = "local"

// Local 本地磁盘后端，对象平铺在一个目录下
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Scheme() string { return schemeLocal }

func (l *Local) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	name := objectName(filename)
	path := filepath.Join(l.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return schemeLocal + "://" + name, nil
}

func (l *Local) Get(ctx context.Context, locator string) ([]byte, error) {
	path, err := l.path(locator)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return b, err
}

func (l *Local) Delete(ctx context.Context, locator string) error {
	path, err := l.path(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DownloadURL 本地盘没有外链，返回空串表示内联回传
func (l *Local) DownloadURL(ctx context.Context, locator string, ttl time.Duration) (string, error) {
	if _, err := l.path(locator); err != nil {
		return "", err
	}
	return "", nil
}

func (l *Local) path(locator string) (string, error) {
	scheme, name, err := SplitLocator(locator)
	if err != nil {
		return "", err
	}
	if scheme != schemeLocal {
		return "", fmt.Errorf("%w: %q is not a local locator", ErrBadLocator, locator)
	}
	// 防目录穿越
	clean := filepath.Base(name)
	if clean != name {
		return "", fmt.Errorf("%w: %q", ErrBadLocator, locator)
	}
	return filepath.Join(l.dir, name), nil
}
