package permutevcf

import "fmt"

// CoordinateOutOfRangeError is returned when a flattened position cannot be
// resolved against an offset table. It always indicates a caller bug: the
// position was not drawn from [1, Total] of the table it was resolved with.
type CoordinateOutOfRangeError struct {
	Margin   int64
	Entries  int
	Total    int64
	Position int64
}

func (e *CoordinateOutOfRangeError) Error() string {
	return fmt.Sprintf("flattened position %d is outside [1, %d] of the offset table for margin %d (%d contigs)", e.Position, e.Total, e.Margin, e.Entries)
}

// NoValidPositionsError is returned when no contig is long enough to host a
// variant with the given margin.
type NoValidPositionsError struct {
	Margin int64

	// Longest is the length of the longest contig in the genome
	Longest int64
}

func (e *NoValidPositionsError) Error() string {
	return fmt.Sprintf("no valid positions for margin %d: the longest contig is %d bases", e.Margin, e.Longest)
}

// MalformedContigError reports contig metadata that cannot define a
// coordinate space.
type MalformedContigError struct {
	Contig string
	Reason string
}

func (e *MalformedContigError) Error() string {
	return fmt.Sprintf("malformed contig %q: %s", e.Contig, e.Reason)
}

// NegativeMarginError is returned when an offset table is requested for a
// margin below zero.
type NegativeMarginError struct {
	Margin int64
}

func (e *NegativeMarginError) Error() string {
	return fmt.Sprintf("margin %d is negative", e.Margin)
}

// VariantError ties a placement failure to the variant that caused it.
type VariantError struct {
	// Index is the 0-based arrival order of the variant
	Index      int
	Chromosome string
	Position   int64
	ID         string
	Margin     int64
	Err        error
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("variant %d (%s:%d %s) with margin %d: %v", e.Index, e.Chromosome, e.Position, e.ID, e.Margin, e.Err)
}

func (e *VariantError) Unwrap() error {
	return e.Err
}
