package permutevcf

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// How often the driver reports progress at debug level
const progressInterval = 10000

// VariantSource yields variants in file order. Read returns nil once the
// source is exhausted or has failed; Error distinguishes the two.
type VariantSource interface {
	Read() *Variant
	Error() error
}

// Assignment is the new position of one variant in one permutation stream.
type Assignment struct {
	// Variant is the 0-based arrival order of the variant
	Variant  int
	Stream   int
	Margin   int64
	Position GenomicPosition
}

// AssignmentSink receives assignments. For each variant, streams arrive in
// order 0..N-1, and variants arrive in source order.
type AssignmentSink interface {
	Assign(v *Variant, a Assignment) error
}

// Driver places every variant of a source into each permutation stream.
type Driver struct {
	sampler *Sampler
	streams int
	log     *log.Logger
}

// NewDriver returns a Driver that draws one position per stream for every
// variant.
func NewDriver(sampler *Sampler, streams int) (*Driver, error) {
	if streams < 1 {
		return nil, fmt.Errorf("at least 1 permutation stream is required, got %d", streams)
	}

	d := &Driver{
		sampler: sampler,
		streams: streams,
		log:     log.StandardLogger(),
	}

	return d, nil
}

// SetLogger replaces the logrus standard logger.
func (d *Driver) SetLogger(logger *log.Logger) {
	d.log = logger
}

// Streams is the number of permutation streams.
func (d *Driver) Streams() int {
	return d.streams
}

// Place draws a position for each stream; element i belongs to stream i.
func (d *Driver) Place(desc Descriptor) ([]GenomicPosition, error) {
	return d.sampler.Sample(Margin(desc), d.streams)
}

// Run places variants from src until it is exhausted and hands every
// assignment to sink. A variant that cannot be placed aborts the run with a
// *VariantError, so each stream always has as many records as the input. Run
// returns the number of variants placed.
func (d *Driver) Run(src VariantSource, sink AssignmentSink) (int, error) {
	d.log.WithFields(log.Fields{
		"streams": d.streams,
		"contigs": len(d.sampler.cache.Contigs()),
	}).Info("Placing variants")

	n := 0
	for v := src.Read(); v != nil; v = src.Read() {
		margin := Margin(v)

		positions, err := d.Place(v)
		if err != nil {
			return n, &VariantError{
				Index:      n,
				Chromosome: v.Chromosome,
				Position:   v.Position,
				ID:         v.ID,
				Margin:     margin,
				Err:        err,
			}
		}

		for stream, pos := range positions {
			a := Assignment{Variant: n, Stream: stream, Margin: margin, Position: pos}
			if err := sink.Assign(v, a); err != nil {
				return n, err
			}
		}

		n++
		if n%progressInterval == 0 {
			d.log.Debugf("Placed %d variants (%d offset tables)", n, d.sampler.cache.Len())
		}
	}

	if err := src.Error(); err != nil {
		return n, err
	}

	d.log.WithFields(log.Fields{
		"variants": n,
		"margins":  d.sampler.cache.Len(),
	}).Info("Placed variants")

	return n, nil
}

type multiSink []AssignmentSink

// MultiSink sends each assignment to every sink in order and stops at the
// first error.
func MultiSink(sinks ...AssignmentSink) AssignmentSink {
	return multiSink(sinks)
}

func (m multiSink) Assign(v *Variant, a Assignment) error {
	for _, sink := range m {
		if err := sink.Assign(v, a); err != nil {
			return err
		}
	}

	return nil
}
