package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"cropwatch/models"
)

// Cache holds normalized table snapshots keyed by the content hash of the
// raw upload they came from. It belongs to the serving layer; the analysis
// core never sees it. Entries are whole-table, immutable snapshots, so a
// hit can be handed to concurrent readers without copying.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]models.ProductionRecord
}

// NewCache returns an empty snapshot cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]models.ProductionRecord)}
}

// ContentHash fingerprints a raw upload for dedup and cache keying.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached snapshot for a content hash, if present.
func (c *Cache) Get(hash string) ([]models.ProductionRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recs, ok := c.entries[hash]
	return recs, ok
}

// Put stores a snapshot under a content hash, replacing any previous one.
func (c *Cache) Put(hash string, records []models.ProductionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash] = records
}

// Invalidate drops the snapshot for a content hash.
func (c *Cache) Invalidate(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, hash)
}

// Len reports how many snapshots are held.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
