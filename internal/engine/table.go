package engine

import (
	"sync"
	"sync/atomic"
)

// Number of shards for table locking (power of 2 for fast modulo)
const tableShardCount = 64
const tableShardMask = tableShardCount - 1

// Entry is one ranked child stored under the hash of the owner's army after
// the move.
type Entry struct {
	Key   uint64  // Full 64-bit hash for verification
	Score float64 // Evaluation of the child belief
	Index int32   // Position of the move in the generated list
	Age   uint32  // Ranking generation, never reused
	used  bool
}

// Table records the best child seen for each resulting army. Workers store
// concurrently; entries from an older ranking are ignored.
type Table struct {
	entries []Entry
	shards  [tableShardCount]sync.RWMutex
	size    uint64
	mask    uint64
	age     atomic.Uint32

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTable creates a table holding at least n entries.
func NewTable(n int) *Table {
	size := uint64(1)
	for size < uint64(n) {
		size <<= 1
	}
	return &Table{
		entries: make([]Entry, size),
		size:    size,
		mask:    size - 1,
	}
}

func (t *Table) shardIndex(idx uint64) int {
	return int(idx & tableShardMask)
}

// Probe looks up the entry stored for hash in the current generation.
func (t *Table) Probe(hash uint64) (Entry, bool) {
	t.probes.Add(1)

	idx := hash & t.mask
	shard := t.shardIndex(idx)

	t.shards[shard].RLock()
	entry := t.entries[idx]
	t.shards[shard].RUnlock()

	if entry.used && entry.Key == hash && entry.Age == t.age.Load() {
		t.hits.Add(1)
		return entry, true
	}
	return Entry{}, false
}

// Store offers a child for hash. An entry of the current generation is only
// replaced by a higher score, or an equal score from an earlier move, so the
// surviving entry does not depend on worker scheduling.
func (t *Table) Store(hash uint64, score float64, index int) {
	idx := hash & t.mask
	shard := t.shardIndex(idx)

	t.shards[shard].Lock()
	entry := &t.entries[idx]

	currentAge := t.age.Load()
	replace := !entry.used || entry.Age != currentAge || entry.Key != hash ||
		score > entry.Score || (score == entry.Score && int32(index) < entry.Index)
	if replace {
		*entry = Entry{Key: hash, Score: score, Index: int32(index), Age: currentAge, used: true}
	}
	t.shards[shard].Unlock()
}

// NewSearch starts a new ranking generation.
func (t *Table) NewSearch() {
	t.age.Add(1)
}

// Clear empties the table.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.age.Store(0)
	t.hits.Store(0)
	t.probes.Store(0)
}

// HitRate returns the probe hit rate as a percentage.
func (t *Table) HitRate() float64 {
	probes := t.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(t.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the table.
func (t *Table) Size() uint64 {
	return t.size
}
