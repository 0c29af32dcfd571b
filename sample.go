package permutevcf

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
)

// Sample columns begin after FORMAT
const firstSampleColumn = columnInfo + 2

type Sample struct {
	SampleID string
}

// ReadSamples returns the sample IDs named on the #CHROM line.
func ReadSamples(v *VCF) ([]Sample, error) {
	if v.ColumnHeader == "" {
		return nil, pfx.Err(fmt.Errorf("the header has not been read"))
	}

	columns := strings.Split(v.ColumnHeader, "\t")
	if len(columns) <= firstSampleColumn {
		return nil, pfx.Err(fmt.Errorf("This file indicates that it does not have sample IDs"))
	}

	samples := make([]Sample, 0, len(columns)-firstSampleColumn)
	for _, id := range columns[firstSampleColumn:] {
		samples = append(samples, Sample{SampleID: id})
	}

	return samples, nil
}
