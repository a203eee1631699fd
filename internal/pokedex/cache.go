package pokedex

import (
	"sort"
	"sync/atomic"
	"time"

	"pokedexapi/internal/entity"
)

// snapshot is a complete, immutable view of the catalog index. entries keeps
// the upstream's native ID order; byName is the same set sorted by name.
// A snapshot is either fully populated or absent; readers never observe a
// partially built one.
type snapshot struct {
	entries   []entity.PokemonSummary
	byName    []entity.PokemonSummary
	dropped   int
	fetchedAt time.Time
}

func newSnapshot(entries []entity.PokemonSummary, dropped int) *snapshot {
	byName := make([]entity.PokemonSummary, len(entries))
	copy(byName, entries)
	sort.Slice(byName, func(i, j int) bool {
		return byName[i].Name < byName[j].Name
	})
	return &snapshot{
		entries:   entries,
		byName:    byName,
		dropped:   dropped,
		fetchedAt: time.Now(),
	}
}

// snapshotCache swaps whole snapshots atomically so a refresh in progress
// never blocks readers of the stale one.
type snapshotCache struct {
	current atomic.Pointer[snapshot]
	ttl     time.Duration
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{ttl: ttl}
}

func (c *snapshotCache) get() (*snapshot, bool) {
	snap := c.current.Load()
	if snap == nil || time.Since(snap.fetchedAt) >= c.ttl {
		return nil, false
	}
	return snap, true
}

func (c *snapshotCache) set(snap *snapshot) {
	c.current.Store(snap)
}
