package permutevcf

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lengths struct {
	ref, minAlt int
}

func (l lengths) RefLength() int    { return l.ref }
func (l lengths) MinAltLength() int { return l.minAlt }

type sliceSource struct {
	variants []*Variant
	err      error
}

func (s *sliceSource) Read() *Variant {
	if len(s.variants) == 0 {
		return nil
	}
	v := s.variants[0]
	s.variants = s.variants[1:]
	return v
}

func (s *sliceSource) Error() error {
	if len(s.variants) == 0 {
		return s.err
	}
	return nil
}

type recordingSink struct {
	assignments []Assignment
	failAfter   int
}

func (r *recordingSink) Assign(v *Variant, a Assignment) error {
	if r.failAfter > 0 && len(r.assignments) == r.failAfter {
		return errors.New("disk full")
	}
	r.assignments = append(r.assignments, a)
	return nil
}

func mustVariant(t *testing.T, columns ...string) *Variant {
	t.Helper()
	v, err := parseVariant(strings.Join(columns, "\t"))
	require.NoError(t, err)
	return v
}

func quietDriver(t *testing.T, contigs ContigLengths, streams int) *Driver {
	t.Helper()
	d, err := NewDriver(NewSeededSampler(mustCache(t, contigs), 5), streams)
	require.NoError(t, err)

	logger := logrus.New()
	logger.Out = io.Discard
	d.SetLogger(logger)

	return d
}

func TestMargin(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
		want int64
	}{
		{"large deletion", lengths{ref: 500, minAlt: 0}, 500},
		{"deletion", lengths{ref: 10, minAlt: 1}, 9},
		{"insertion", lengths{ref: 1, minAlt: 8}, 0},
		{"substitution", lengths{ref: 3, minAlt: 3}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Margin(c.d))
		})
	}
}

func TestVariantMargin(t *testing.T) {
	cases := []struct {
		ref, alt string
		want     int64
	}{
		{"A", "T", 0},
		{"ACGTACGTAC", "A", 9},
		{"A", "ACGT", 0},
		{"ATTT", "A,AT", 3},
		{"ATTT", "AT,A", 3},
		{"ATTT", ".", 0},
		{"AT", "<DEL>", 0},
	}

	for _, c := range cases {
		v := mustVariant(t, "chr1", "1", ".", c.ref, c.alt, ".", ".", ".")
		assert.Equal(t, c.want, Margin(v), "%s>%s", c.ref, c.alt)
	}
}

func TestRelocated(t *testing.T) {
	v := mustVariant(t, "chr1", "10", "rs1", "A", "T", "50", "PASS", "DP=3", "GT", "0/1")

	assert.Equal(t, "chr9\t777\trs1\tA\tT\t50\tPASS\tDP=3\tGT\t0/1", v.Relocated(GenomicPosition{Contig: "chr9", Position: 777}))
	assert.Equal(t, "chr1\t10\trs1\tA\tT\t50\tPASS\tDP=3\tGT\t0/1", v.String(), "relocating does not modify the variant")
}

func TestNewDriverRequiresStreams(t *testing.T) {
	_, err := NewDriver(NewSeededSampler(mustCache(t, threeContigs()), 1), 0)
	assert.Error(t, err)
}

func TestDriverPlace(t *testing.T) {
	d := quietDriver(t, threeContigs(), 7)

	positions, err := d.Place(lengths{ref: 151, minAlt: 1})
	require.NoError(t, err)
	require.Len(t, positions, 7)

	for _, pos := range positions {
		assert.NotEqual(t, "chr1", pos.Contig, "chr1 is shorter than the margin")
		length, _ := threeContigs().Length(pos.Contig)
		assert.LessOrEqual(t, pos.Position, length-150)
	}
}

func TestDriverRun(t *testing.T) {
	const streams = 4
	d := quietDriver(t, threeContigs(), streams)
	assert.Equal(t, streams, d.Streams())

	src := &sliceSource{variants: []*Variant{
		mustVariant(t, "chr1", "10", "snv", "A", "T", ".", ".", "."),
		mustVariant(t, "chr2", "20", "del", strings.Repeat("A", 201), "A", ".", ".", "."),
		mustVariant(t, "chr3", "30", "ins", "A", "AAAA", ".", ".", "."),
	}}
	sink := &recordingSink{}

	n, err := d.Run(src, sink)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, sink.assignments, 3*streams)

	for i, a := range sink.assignments {
		assert.Equal(t, i/streams, a.Variant, "variants arrive in input order")
		assert.Equal(t, i%streams, a.Stream, "streams arrive in order within a variant")

		length, ok := threeContigs().Length(a.Position.Contig)
		require.True(t, ok)
		assert.LessOrEqual(t, a.Position.Position, length-a.Margin)
		assert.GreaterOrEqual(t, a.Position.Position, int64(1))
	}

	for _, a := range sink.assignments[streams : 2*streams] {
		assert.EqualValues(t, 200, a.Margin)
		assert.Equal(t, "chr3", a.Position.Contig, "only chr3 can hold a 200 base deletion")
	}
}

func TestDriverRunAbortsOnUnplaceableVariant(t *testing.T) {
	const streams = 3
	d := quietDriver(t, threeContigs(), streams)

	src := &sliceSource{variants: []*Variant{
		mustVariant(t, "chr1", "10", "snv", "A", "T", ".", ".", "."),
		mustVariant(t, "chr2", "20", "huge", strings.Repeat("A", 501), "A", ".", ".", "."),
		mustVariant(t, "chr3", "30", "after", "A", "T", ".", ".", "."),
	}}
	sink := &recordingSink{}

	n, err := d.Run(src, sink)
	assert.Equal(t, 1, n)

	var ve *VariantError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 1, ve.Index)
	assert.Equal(t, "huge", ve.ID)
	assert.EqualValues(t, 500, ve.Margin)
	assert.Contains(t, ve.Error(), "chr2:20")

	var none *NoValidPositionsError
	require.ErrorAs(t, err, &none)
	assert.EqualValues(t, 500, none.Margin)

	assert.Len(t, sink.assignments, streams, "no stream receives a partial variant")
}

func TestDriverRunPropagatesErrors(t *testing.T) {
	d := quietDriver(t, threeContigs(), 2)

	readErr := errors.New("truncated file")
	_, err := d.Run(&sliceSource{err: readErr}, &recordingSink{})
	assert.ErrorIs(t, err, readErr)

	src := &sliceSource{variants: []*Variant{mustVariant(t, "chr1", "10", "snv", "A", "T", ".", ".", ".")}}
	_, err = d.Run(src, &recordingSink{failAfter: 1})
	assert.EqualError(t, err, "disk full")
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	sink := MultiSink(a, b)

	v := mustVariant(t, "chr1", "10", "snv", "A", "T", ".", ".", ".")
	require.NoError(t, sink.Assign(v, Assignment{Variant: 0, Stream: 1}))

	assert.Len(t, a.assignments, 1)
	assert.Len(t, b.assignments, 1)

	failing := MultiSink(&recordingSink{failAfter: 0}, &recordingSink{failAfter: 1}, b)
	require.NoError(t, failing.Assign(v, Assignment{}))
	assert.Error(t, failing.Assign(v, Assignment{}))
	assert.Len(t, b.assignments, 2, "sinks after a failing one are not called")
}
