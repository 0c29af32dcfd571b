package permutevcf

import (
	"strconv"
	"strings"
)

// Columns of a VCF data line
const (
	columnChrom = iota
	columnPos
	columnID
	columnRef
	columnAlt
	columnQual
	columnFilter
	columnInfo
)

// MissingValue is the VCF placeholder for an empty field
const MissingValue = "."

// Variant is one VCF data line. Only the columns needed for placement are
// parsed; the rest are kept verbatim for output.
type Variant struct {
	Chromosome string
	Position   int64
	ID         string
	Ref        string
	Alt        []string

	fields []string
}

// Descriptor exposes the allele lengths that determine where a variant can be
// placed.
type Descriptor interface {
	RefLength() int
	MinAltLength() int
}

// Margin is the minimum distance from a contig's 3' end at which a variant
// may start so that it still fits on the contig. Only net deletions need one.
func Margin(d Descriptor) int64 {
	margin := int64(d.RefLength()) - int64(d.MinAltLength())
	if margin < 0 {
		return 0
	}

	return margin
}

func (v *Variant) RefLength() int {
	return len(v.Ref)
}

// MinAltLength is the length of the shortest alternate allele. A missing
// alternate allele counts as the reference length, i.e., no net change.
func (v *Variant) MinAltLength() int {
	shortest := len(v.Ref)
	for i, alt := range v.Alt {
		n := len(alt)
		if alt == MissingValue {
			n = len(v.Ref)
		}
		if i == 0 || n < shortest {
			shortest = n
		}
	}

	return shortest
}

// Relocated returns the data line for v with CHROM and POS replaced by pos.
// Every other column is unchanged.
func (v *Variant) Relocated(pos GenomicPosition) string {
	fields := make([]string, len(v.fields))
	copy(fields, v.fields)
	fields[columnChrom] = pos.Contig
	fields[columnPos] = strconv.FormatInt(pos.Position, 10)

	return strings.Join(fields, "\t")
}

// String returns the data line as it was read.
func (v *Variant) String() string {
	return strings.Join(v.fields, "\t")
}
