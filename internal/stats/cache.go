package stats

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/JeffiBR/backend-curriculos/internal/shared/metrics"
)

// Source supplies the raw submission aggregate. Implemented by the
// submission repositories.
type Source interface {
	Aggregate(ctx context.Context, since time.Time) (total int, recent int, porVaga map[string]int, err error)
}

// Aggregate is one computed statistics snapshot.
type Aggregate struct {
	TotalCurriculos   int            `json:"total_curriculos"`
	Curriculos7Dias   int            `json:"curriculos_7_dias"`
	PorVaga           map[string]int `json:"por_vaga"`
	UltimaAtualizacao time.Time      `json:"ultima_atualizacao"`
}

// Cache serves aggregate snapshots no older than TTL. Readers see either a
// fresh snapshot or one computed within the TTL; two concurrent misses may
// both recompute, last swap wins and both values are equivalent.
type Cache struct {
	Src Source
	TTL time.Duration
	Now func() time.Time

	snapshot atomic.Pointer[Aggregate]
}

// NewCache constructs a Cache over the given source.
func NewCache(src Source, ttl time.Duration) *Cache {
	return &Cache{Src: src, TTL: ttl}
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

// Get returns the current snapshot and whether it was served from cache.
func (c *Cache) Get(ctx context.Context) (Aggregate, bool, error) {
	now := c.now()

	if snap := c.snapshot.Load(); snap != nil && now.Sub(snap.UltimaAtualizacao) < c.TTL {
		metrics.IncStatsCacheHit()
		return *snap, true, nil
	}

	metrics.IncStatsCacheMiss()
	total, recent, porVaga, err := c.Src.Aggregate(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return Aggregate{}, false, fmt.Errorf("compute statistics: %w", err)
	}
	if porVaga == nil {
		porVaga = map[string]int{}
	}

	snap := &Aggregate{
		TotalCurriculos:   total,
		Curriculos7Dias:   recent,
		PorVaga:           porVaga,
		UltimaAtualizacao: now,
	}
	c.snapshot.Store(snap)
	return *snap, false, nil
}
