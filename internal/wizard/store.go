package wizard

import (
	"context"
	"sync"
)

// Store 草稿持久化的窄契约，本地（设备）与服务端（按用户）两个实现。
//
// Save 允许并发调用，语义为 last-write-wins：不保证先后 Save 的完成顺序，
// 只保证最后完成的那次生效。两台设备同时编辑同一用户草稿同理——这是已知
// 限制，按产品要求不做合并。
type Store interface {
	Load(ctx context.Context) (*Draft, bool, error)
	Save(ctx context.Context, d *Draft) error
	Clear(ctx context.Context) error
}

// MemoryStore 进程内实现，测试与匿名降级场景使用。
type MemoryStore struct {
	mu    sync.Mutex
	draft *Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, false, nil
	}
	d := s.draft.Clone()
	return &d, true, nil
}

func (s *MemoryStore) Save(ctx context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := d.Clone()
	s.draft = &c
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = nil
	return nil
}
