package permutevcf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// Every VCF data line carries at least the fixed columns through INFO
const minimumColumns = columnInfo + 1

// VariantReader reads data lines from a VCF in file order.
type VariantReader struct {
	VariantsSeen int
	v            *VCF
	err          error
}

func (v *VCF) NewVariantReader() *VariantReader {
	vr := &VariantReader{
		v: v,
	}

	return vr
}

func (vr *VariantReader) Error() error {
	return vr.err
}

// Read returns the next variant, or nil at the end of the file or after an
// error.
func (vr *VariantReader) Read() *Variant {
	if vr.err != nil {
		return nil
	}

	for {
		line, err := readLine(vr.v.reader)
		if err == io.EOF {
			return nil
		} else if err != nil {
			vr.err = pfx.Err(err)
			return nil
		}

		if line == "" {
			continue
		}

		v, err := parseVariant(line)
		if err != nil {
			vr.err = pfx.Err(fmt.Errorf("data line %d: %w", vr.VariantsSeen+1, err))
			return nil
		}

		vr.VariantsSeen++
		return v
	}
}

func parseVariant(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minimumColumns {
		return nil, fmt.Errorf("found %d columns; expected at least %d", len(fields), minimumColumns)
	}

	pos, err := strconv.ParseInt(fields[columnPos], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("POS %q is not an integer", fields[columnPos])
	}

	v := &Variant{
		Chromosome: fields[columnChrom],
		Position:   pos,
		ID:         fields[columnID],
		Ref:        fields[columnRef],
		Alt:        strings.Split(fields[columnAlt], ","),
		fields:     fields,
	}

	return v, nil
}
