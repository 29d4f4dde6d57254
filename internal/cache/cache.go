// Package cache keeps recently loaded contract pages and the contract count.
// Misses and backend failures look the same to callers: the page is loaded
// from the database again.
package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/nurpe/contracts-panel/internal/model"
)

const (
	ckPage  = "page_%d_size_%d"
	ckCount = "count"
)

type PageCache interface {
	GetPage(ctx context.Context, page, size int) ([]model.Contract, bool)
	SetPage(ctx context.Context, page, size int, contracts []model.Contract)
	GetCount(ctx context.Context) (int64, bool)
	SetCount(ctx context.Context, total int64)
}

func pageKey(page, size int) string {
	return fmt.Sprintf(ckPage, page, size)
}

// Memory is a per-process cache.
type Memory struct {
	store *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{store: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) GetPage(_ context.Context, page, size int) ([]model.Contract, bool) {
	v, ok := m.store.Get(pageKey(page, size))
	if !ok {
		return nil, false
	}
	return v.([]model.Contract), true
}

func (m *Memory) SetPage(_ context.Context, page, size int, contracts []model.Contract) {
	m.store.SetDefault(pageKey(page, size), contracts)
}

func (m *Memory) GetCount(context.Context) (int64, bool) {
	v, ok := m.store.Get(ckCount)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

func (m *Memory) SetCount(_ context.Context, total int64) {
	m.store.SetDefault(ckCount, total)
}
