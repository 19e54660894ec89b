package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

const schemeMem = "mem"

// Memory 内存后端，测试用
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Scheme() string { return schemeMem }

func (m *Memory) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if size >= 0 && int64(len(b)) != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(b))
	}
	name := objectName(filename)
	m.mu.Lock()
	m.objects[name] = b
	m.mu.Unlock()
	return schemeMem + "://" + name, nil
}

func (m *Memory) Get(ctx context.Context, locator string) ([]byte, error) {
	name, err := m.key(locator)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *Memory) Delete(ctx context.Context, locator string) error {
	name, err := m.key(locator)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[name]; !ok {
		return ErrNotFound
	}
	delete(m.objects, name)
	return nil
}

func (m *Memory) DownloadURL(ctx context.Context, locator string, ttl time.Duration) (string, error) {
	if _, err := m.Get(ctx, locator); err != nil {
		return "", err
	}
	return "", nil
}

// Len 当前对象数，断言用
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *Memory) key(locator string) (string, error) {
	scheme, name, err := SplitLocator(locator)
	if err != nil {
		return "", err
	}
	if scheme != schemeMem {
		return "", fmt.Errorf("%w: %q is not a mem locator", ErrBadLocator, locator)
	}
	return name, nil
}
