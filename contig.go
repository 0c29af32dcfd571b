package permutevcf

// Contig is a named sequence of fixed length, as declared by a ##contig
// header line.
type Contig struct {
	Name   string
	Length int64
}

// ContigLengths holds contigs in header declaration order. The order defines
// the layout of the flattened coordinate space and must not be changed.
type ContigLengths []Contig

// NewContigLengths validates contigs and returns them as ContigLengths. The
// input slice is copied.
func NewContigLengths(contigs []Contig) (ContigLengths, error) {
	out := make(ContigLengths, len(contigs))
	copy(out, contigs)

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// Validate returns a *MalformedContigError for the first contig with an empty
// name, a non-positive length, or a name that was already declared.
func (c ContigLengths) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for _, contig := range c {
		if contig.Name == "" {
			return &MalformedContigError{Contig: contig.Name, Reason: "empty name"}
		}
		if contig.Length <= 0 {
			return &MalformedContigError{Contig: contig.Name, Reason: "length must be positive"}
		}
		if _, exists := seen[contig.Name]; exists {
			return &MalformedContigError{Contig: contig.Name, Reason: "declared more than once"}
		}
		seen[contig.Name] = struct{}{}
	}

	return nil
}

// Length returns the length of the named contig.
func (c ContigLengths) Length(name string) (int64, bool) {
	for _, contig := range c {
		if contig.Name == name {
			return contig.Length, true
		}
	}

	return 0, false
}

// Total is the sum of all contig lengths.
func (c ContigLengths) Total() int64 {
	var total int64
	for _, contig := range c {
		total += contig.Length
	}

	return total
}

// Longest returns the length of the longest contig, or 0 if there are none.
func (c ContigLengths) Longest() int64 {
	var longest int64
	for _, contig := range c {
		if contig.Length > longest {
			longest = contig.Length
		}
	}

	return longest
}
