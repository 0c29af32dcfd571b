package permutevcf

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

type zstdReadCloser struct {
	*zstd.Decoder
}

// Close releases the decoder. zstd.Decoder.Close has no error to report.
func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func newZStandardReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}

	return zstdReadCloser{dec}, nil
}

func newZStandardWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}

	return enc, nil
}
