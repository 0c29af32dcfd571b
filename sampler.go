package permutevcf

import (
	"fmt"
	"math/rand"
)

// Sampler draws uniformly random valid start positions. A Sampler is not safe
// for concurrent use; concurrent workers should each create their own over a
// shared TableCache.
type Sampler struct {
	cache *TableCache
	rng   *rand.Rand
}

// NewSampler draws positions from the genome of cache using src.
func NewSampler(cache *TableCache, src rand.Source) *Sampler {
	return &Sampler{
		cache: cache,
		rng:   rand.New(src),
	}
}

// NewSeededSampler is NewSampler with a math/rand source seeded by seed.
func NewSeededSampler(cache *TableCache, seed int64) *Sampler {
	return NewSampler(cache, rand.NewSource(seed))
}

// Sample draws count independent positions, with replacement, whose distance
// from the 3' end of their contig is at least margin. It returns a
// *NoValidPositionsError if no contig is longer than margin.
func (s *Sampler) Sample(margin int64, count int) ([]GenomicPosition, error) {
	if count < 1 {
		return nil, fmt.Errorf("sample count must be at least 1, got %d", count)
	}

	table, err := s.cache.Table(margin)
	if err != nil {
		return nil, err
	}

	if table.Total() == 0 {
		return nil, &NoValidPositionsError{Margin: margin, Longest: s.cache.Contigs().Longest()}
	}

	positions := make([]GenomicPosition, count)
	for i := range positions {
		// [1, Total]
		flat := s.rng.Int63n(table.Total()) + 1

		positions[i], err = table.Resolve(flat)
		if err != nil {
			return nil, err
		}
	}

	return positions, nil
}
