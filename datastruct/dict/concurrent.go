// Package dict -----------------------------
// @file      : concurrent.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/14 19:30
// -------------------------------------------
package dict

import (
	"sync"

	jump "github.com/dgryski/go-jump"
	"github.com/zeebo/xxh3"
)

const defaultShardCount = 16

// ConcurrentDict 分段加锁的 map
type ConcurrentDict struct {
	shards []*shard
}

type shard struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// MakeConcurrent shardCount <= 0 时使用默认的 16 段
func MakeConcurrent(shardCount int) *ConcurrentDict {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{m: make(map[string][]byte)}
	}
	return &ConcurrentDict{shards: shards}
}

func (d *ConcurrentDict) getShard(key string) *shard {
	// Jump 一致性哈希 https://arxiv.org/abs/1406.2294
	return d.shards[jump.Hash(xxh3.HashString(key), len(d.shards))]
}

func (d *ConcurrentDict) Get(key string) ([]byte, bool) {
	s := d.getShard(key)
	s.mu.RLock()
	val, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	// 调用方拿到的是副本，之后的 Put 不会影响它
	out := make([]byte, len(val))
	copy(out, val)
	return out, true
}

func (d *ConcurrentDict) Put(key string, val []byte) (result int) {
	buf := make([]byte, len(val))
	copy(buf, val)
	s := d.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existed := s.m[key]; existed {
		s.m[key] = buf
		return 0
	}
	s.m[key] = buf
	return 1
}

func (d *ConcurrentDict) Len() int {
	length := 0
	for _, s := range d.shards {
		s.mu.RLock()
		length += len(s.m)
		s.mu.RUnlock()
	}
	return length
}

func (d *ConcurrentDict) Clear() {
	for _, s := range d.shards {
		s.mu.Lock()
		s.m = make(map[string][]byte)
		s.mu.Unlock()
	}
}
