package permutevcf

import "sort"

// Tables with at most this many entries are resolved with a linear scan.
const linearScanMaxEntries = 8

// OffsetEntry places one contig on the flattened coordinate axis.
type OffsetEntry struct {
	Contig string

	// Start is the 0-based flattened position just before the contig's first
	// valid start coordinate.
	Start int64

	// Length is the number of valid start coordinates on the contig, i.e.,
	// its length minus the margin.
	Length int64
}

// OffsetTable maps the flattened coordinate space for one margin back onto
// contigs. It is immutable once built.
type OffsetTable struct {
	margin  int64
	total   int64
	entries []OffsetEntry
}

// GenomicPosition is a 1-based coordinate on a named contig.
type GenomicPosition struct {
	Contig   string
	Position int64
}

// BuildOffsetTable lays out every contig that can host at least one start
// coordinate under margin end to end, in contig order. A contig whose length
// does not exceed the margin contributes no positions and is left out. The
// result may be empty with a zero total.
func BuildOffsetTable(contigs ContigLengths, margin int64) (*OffsetTable, error) {
	if margin < 0 {
		return nil, &NegativeMarginError{Margin: margin}
	}

	if err := contigs.Validate(); err != nil {
		return nil, err
	}

	t := &OffsetTable{
		margin:  margin,
		entries: make([]OffsetEntry, 0, len(contigs)),
	}

	for _, contig := range contigs {
		effective := contig.Length - margin
		if effective <= 0 {
			continue
		}

		t.entries = append(t.entries, OffsetEntry{
			Contig: contig.Name,
			Start:  t.total,
			Length: effective,
		})
		t.total += effective
	}

	return t, nil
}

// Margin is the exclusion margin the table was built for.
func (t *OffsetTable) Margin() int64 {
	return t.margin
}

// Total is the number of valid start coordinates in the genome.
func (t *OffsetTable) Total() int64 {
	return t.total
}

// Len is the number of contigs in the table.
func (t *OffsetTable) Len() int {
	return len(t.entries)
}

// Entry returns the ith entry.
func (t *OffsetTable) Entry(i int) OffsetEntry {
	return t.entries[i]
}

// Entries returns a copy of the table's entries.
func (t *OffsetTable) Entries() []OffsetEntry {
	out := make([]OffsetEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Resolve converts a flattened position in [1, Total] to the contig and
// 1-based position it stands for.
func (t *OffsetTable) Resolve(flat int64) (GenomicPosition, error) {
	var i int
	if len(t.entries) <= linearScanMaxEntries {
		i = t.scan(flat)
	} else {
		i = t.search(flat)
	}

	if i < 0 {
		return GenomicPosition{}, &CoordinateOutOfRangeError{
			Margin:   t.margin,
			Entries:  len(t.entries),
			Total:    t.total,
			Position: flat,
		}
	}

	e := t.entries[i]
	return GenomicPosition{Contig: e.Contig, Position: flat - e.Start}, nil
}

// search returns the index of the entry containing flat, or -1.
func (t *OffsetTable) search(flat int64) int {
	// First entry whose range begins at or after flat; the one before it is
	// the only candidate.
	i := sort.Search(len(t.entries), func(j int) bool {
		return t.entries[j].Start >= flat
	}) - 1

	if i < 0 || !t.entries[i].contains(flat) {
		return -1
	}

	return i
}

// scan is the linear equivalent of search.
func (t *OffsetTable) scan(flat int64) int {
	for i, e := range t.entries {
		if e.contains(flat) {
			return i
		}
	}

	return -1
}

func (e OffsetEntry) contains(flat int64) bool {
	return e.Start < flat && flat <= e.Start+e.Length
}
