package permutevcf

import (
	"bytes"
	"fmt"
	"strings"
)

// Compression indicates how (and whether) a VCF stream is compressed
type Compression uint32

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZStandard
)

var (
	magicGzip      = []byte{0x1f, 0x8b}
	magicZStandard = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZStandard:
		return "zstd"

	default:
		return "Illegal selection"
	}
}

// Extension is the file name suffix for VCFs with this compression.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".vcf.gz"
	case CompressionZStandard:
		return ".vcf.zst"
	}

	return ".vcf"
}

// ParseCompression accepts the names returned by Compression.String.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return CompressionNone, nil
	case "gzip", "gz", "bgzip":
		return CompressionGzip, nil
	case "zstd", "zst", "zstandard":
		return CompressionZStandard, nil
	}

	return CompressionNone, fmt.Errorf("compression %q is not one of none, gzip or zstd", name)
}

// DetectCompression identifies the compression of a stream from its first
// bytes. BGZF files are gzip members and are detected as gzip.
func DetectCompression(head []byte) Compression {
	if bytes.HasPrefix(head, magicGzip) {
		return CompressionGzip
	} else if bytes.HasPrefix(head, magicZStandard) {
		return CompressionZStandard
	}

	return CompressionNone
}
