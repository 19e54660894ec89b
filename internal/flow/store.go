package flow

import (
	"context"
	"sync"
	"time"
)

// Store 按会话令牌持久化导航状态；缺失的令牌返回初始状态
type Store interface {
	Get(ctx context.Context, token string) (State, error)
	Put(ctx context.Context, token string, s State, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

type memEntry struct {
	state   State
	expires time.Time
}

// MemoryStore 进程内实现，单机部署与测试用
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]memEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]memEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, token string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[token]
	if !ok || (!e.expires.IsZero() && time.Now().After(e.expires)) {
		delete(s.m, token)
		return Initial(), nil
	}
	return e.state, nil
}

func (s *MemoryStore) Put(ctx context.Context, token string, st State, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.m[token] = memEntry{state: st, expires: exp}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
	return nil
}
