package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Key 缓存指纹：操作名 + 参数
type Key string

// NewKey 构造缓存指纹
func NewKey(op string, params ...interface{}) Key {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, op)
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return Key(strings.Join(parts, ":"))
}

// entry 一条缓存记录，stale 表示已失效、下次读取需回源
type entry struct {
	value interface{}
	stale bool
}

// Store 查询缓存
// 每个应用会话创建一次，按依赖注入传递，不做包级单例
type Store struct {
	data *gocache.Cache
	sf   singleflight.Group
	ttl  time.Duration

	mu       sync.Mutex
	versions map[Key]uint64 // 乐观更新时自增，作废在途查询
}

// NewStore 创建查询缓存，ttl 是条目的新鲜窗口
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		data:     gocache.New(ttl, 2*ttl),
		ttl:      ttl,
		versions: make(map[Key]uint64),
	}
}

// Fetch 读取缓存；未命中或已失效时调用 load 回源
// 同一 key 的并发回源合并为一次调用，所有调用方拿到同一结果
func Fetch[T any](ctx context.Context, s *Store, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := s.fresh(key); ok {
		if val, ok := v.(T); ok {
			return val, nil
		}
	}

	ver := s.version(key)
	v, err, _ := s.sf.Do(string(key), func() (interface{}, error) {
		// 二次检查：排队期间可能已有别的调用填充
		if v, ok := s.fresh(key); ok {
			return v, nil
		}
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		// 回源期间若有乐观更新介入，丢弃本次结果，避免覆盖乐观值
		s.setIfVersion(key, ver, val)
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	val, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("缓存类型不匹配: %s", key)
	}
	return val, nil
}

// Peek 直接读取当前缓存值（含已失效条目），不回源
func (s *Store) Peek(key Key) (interface{}, bool) {
	v, ok := s.data.Get(string(key))
	if !ok {
		return nil, false
	}
	return v.(entry).value, true
}

// Invalidate 将若干 key 标记为失效，保留旧值供展示，下次读取回源
func (s *Store) Invalidate(keys ...Key) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if v, ok := s.data.Get(string(key)); ok {
			e := v.(entry)
			e.stale = true
			s.data.Set(string(key), e, gocache.DefaultExpiration)
		}
	}
}

// Flush 清空所有缓存
func (s *Store) Flush() {
	s.data.Flush()
	s.mu.Lock()
	s.versions = make(map[Key]uint64)
	s.mu.Unlock()
}

func (s *Store) fresh(key Key) (interface{}, bool) {
	v, ok := s.data.Get(string(key))
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if e.stale {
		return nil, false
	}
	return e.value, true
}

func (s *Store) set(key Key, value interface{}) {
	s.data.Set(string(key), entry{value: value}, gocache.DefaultExpiration)
}

// peekEntry 读取整条缓存记录（含 stale 标记），供回滚快照使用
func (s *Store) peekEntry(key Key) (entry, bool) {
	v, ok := s.data.Get(string(key))
	if !ok {
		return entry{}, false
	}
	return v.(entry), true
}

// restore 原样写回一条快照记录，stale 标记一并恢复
func (s *Store) restore(key Key, e entry) {
	s.data.Set(string(key), e, gocache.DefaultExpiration)
}

func (s *Store) remove(key Key) {
	s.data.Delete(string(key))
}

func (s *Store) version(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[key]
}

func (s *Store) bumpVersion(key Key) {
	s.mu.Lock()
	s.versions[key]++
	s.mu.Unlock()
}

func (s *Store) setIfVersion(key Key, ver uint64, value interface{}) {
	s.mu.Lock()
	current := s.versions[key]
	s.mu.Unlock()
	if current != ver {
		return
	}
	s.set(key, value)
}
