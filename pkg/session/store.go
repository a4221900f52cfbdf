// Package session 保存跨"页面"的滚动位置
//
// 只有一个键、一个数值：离开时间轴时写入，下次进入时读取并清除（一次性消费）。
package session

import "sync"

// PositionStore 滚动位置存储
type PositionStore interface {
	// Save 写入滚动偏移，覆盖旧值
	Save(offset float64) error
	// Take 读取并清除滚动偏移；没有值时返回 false
	Take() (float64, bool)
}

// MemoryStore 进程内存储，生命周期与进程相同
type MemoryStore struct {
	mu     sync.Mutex
	offset float64
	ok     bool
}

// NewMemoryStore 创建独立的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var sharedMemoryStore = NewMemoryStore()

// SharedMemoryStore 返回进程级共享的内存存储
func SharedMemoryStore() *MemoryStore {
	return sharedMemoryStore
}

// Save 写入滚动偏移
func (s *MemoryStore) Save(offset float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = offset
	s.ok = true
	return nil
}

// Take 读取并清除滚动偏移
func (s *MemoryStore) Take() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ok {
		return 0, false
	}
	offset := s.offset
	s.offset = 0
	s.ok = false
	return offset, true
}
