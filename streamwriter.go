package permutevcf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/klauspost/pgzip"
)

// StreamWriters holds one output VCF per permutation stream and writes each
// assignment to the file of its stream.
type StreamWriters struct {
	Paths   []string
	streams []*streamWriter
}

type streamWriter struct {
	buf *bufio.Writer

	// Closed in order: compressor, then destination
	closers []io.Closer
}

// StreamPath is the output location of a stream: <dir>/<stream><extension>.
func StreamPath(dir string, stream int, c Compression) string {
	name := strconv.Itoa(stream) + c.Extension()
	if IsGoogleStorage(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}

	return filepath.Join(dir, name)
}

// CreateStreams creates n output files under dir, which is created if it
// does not exist (or is a gs:// prefix), and copies the header of src into
// each of them.
func CreateStreams(dir string, n int, src *VCF, c Compression) (*StreamWriters, error) {
	if n < 1 {
		return nil, pfx.Err(fmt.Errorf("at least 1 stream is required, got %d", n))
	}

	if !IsGoogleStorage(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, pfx.Err(err)
		}
	}

	sw := &StreamWriters{}
	header := src.Header()

	for i := 0; i < n; i++ {
		path := StreamPath(dir, i, c)

		stream, err := createStream(path, c)
		if err != nil {
			sw.Close()
			return nil, pfx.Err(err)
		}
		sw.Paths = append(sw.Paths, path)
		sw.streams = append(sw.streams, stream)

		if _, err := stream.buf.WriteString(header); err != nil {
			sw.Close()
			return nil, pfx.Err(err)
		}
	}

	return sw, nil
}

func createStream(path string, c Compression) (*streamWriter, error) {
	var dst io.WriteCloser
	var err error

	if IsGoogleStorage(path) {
		dst, err = createGoogleStorage(context.Background(), path)
	} else {
		dst, err = os.Create(path)
	}
	if err != nil {
		return nil, err
	}

	s := &streamWriter{}

	var w io.Writer = dst
	switch c {
	case CompressionGzip:
		zw := pgzip.NewWriter(dst)
		s.closers = append(s.closers, zw)
		w = zw
	case CompressionZStandard:
		zw, err := newZStandardWriter(dst)
		if err != nil {
			dst.Close()
			return nil, err
		}
		s.closers = append(s.closers, zw)
		w = zw
	}
	s.closers = append(s.closers, dst)
	s.buf = bufio.NewWriter(w)

	return s, nil
}

// Assign writes v, relocated to the assigned position, to the stream's file.
func (sw *StreamWriters) Assign(v *Variant, a Assignment) error {
	if a.Stream < 0 || a.Stream >= len(sw.streams) {
		return pfx.Err(fmt.Errorf("stream %d does not exist; there are %d streams", a.Stream, len(sw.streams)))
	}

	buf := sw.streams[a.Stream].buf
	if _, err := buf.WriteString(v.Relocated(a.Position)); err != nil {
		return pfx.Err(err)
	}
	if err := buf.WriteByte('\n'); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Close flushes and closes every stream. It returns the first error seen but
// always attempts to close all streams.
func (sw *StreamWriters) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = pfx.Err(err)
		}
	}

	for _, s := range sw.streams {
		keep(s.buf.Flush())
		for _, c := range s.closers {
			keep(c.Close())
		}
	}
	sw.streams = nil

	return first
}
