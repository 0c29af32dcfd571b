package permutevcf

import "sync"

// TableCache builds offset tables for one genome lazily, once per margin.
// It is safe for concurrent use: the first caller for a margin builds the
// table and every other caller for that margin receives the same table.
type TableCache struct {
	contigs ContigLengths

	mu     sync.Mutex
	tables map[int64]*cachedTable

	// OnBuild, if set, is called after each new table is built. It must be
	// set before the cache is shared.
	OnBuild func(t *OffsetTable)
}

type cachedTable struct {
	once  sync.Once
	table *OffsetTable
	err   error
}

// NewTableCache validates contigs and returns an empty cache over them.
func NewTableCache(contigs ContigLengths) (*TableCache, error) {
	if err := contigs.Validate(); err != nil {
		return nil, err
	}

	return &TableCache{
		contigs: contigs,
		tables:  make(map[int64]*cachedTable),
	}, nil
}

// Contigs returns the genome the cache was built for.
func (c *TableCache) Contigs() ContigLengths {
	return c.contigs
}

// Table returns the offset table for margin, building it on first use.
func (c *TableCache) Table(margin int64) (*OffsetTable, error) {
	c.mu.Lock()
	ct, exists := c.tables[margin]
	if !exists {
		ct = &cachedTable{}
		c.tables[margin] = ct
	}
	c.mu.Unlock()

	// Only the builder for this margin blocks other callers of this margin.
	ct.once.Do(func() {
		ct.table, ct.err = BuildOffsetTable(c.contigs, margin)
		if ct.err == nil && c.OnBuild != nil {
			c.OnBuild(ct.table)
		}
	})

	return ct.table, ct.err
}

// Len is the number of margins the cache holds.
func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.tables)
}
