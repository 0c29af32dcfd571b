package permutevcf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
)

const (
	metaPrefix   = "##"
	contigPrefix = "##contig=<"
	columnPrefix = "#CHROM"
)

// VCF is the main object used for reading VCF files. The header is parsed
// when the VCF is opened; data lines are read with a VariantReader.
type VCF struct {
	FilePath    string
	Compression Compression

	// Meta holds every ## header line, verbatim and in order
	Meta []string

	// ColumnHeader is the #CHROM line
	ColumnHeader string

	Contigs ContigLengths

	reader  *bufio.Reader
	closers []io.Closer
}

// Open attempts to read the header of the VCF located at path, which may be
// uncompressed, gzip (including bgzip) or zstd compressed, and may be a
// gs:// URL. If successful, this returns a new VCF object positioned at the
// first data line.
func Open(path string) (*VCF, error) {
	var raw io.ReadCloser
	var err error

	if IsGoogleStorage(path) {
		raw, err = openGoogleStorage(context.Background(), path)
	} else {
		raw, err = os.Open(path)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	v, err := newVCF(raw)
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	v.FilePath = path
	v.closers = append(v.closers, raw)

	return v, nil
}

// NewVCF reads a VCF header from r. Compression is detected from the first
// bytes of r.
func NewVCF(r io.Reader) (*VCF, error) {
	return newVCF(r)
}

func newVCF(r io.Reader) (*VCF, error) {
	head := bufio.NewReader(r)

	magic, err := head.Peek(len(magicZStandard))
	if err != nil && err != io.EOF {
		return nil, pfx.Err(err)
	}

	v := &VCF{Compression: DetectCompression(magic)}

	var body io.Reader = head
	switch v.Compression {
	case CompressionGzip:
		// gzip.Reader reads concatenated members by default, which covers BGZF
		zr, err := gzip.NewReader(head)
		if err != nil {
			return nil, pfx.Err(err)
		}
		v.closers = append(v.closers, zr)
		body = zr
	case CompressionZStandard:
		zr, err := newZStandardReader(head)
		if err != nil {
			return nil, pfx.Err(err)
		}
		v.closers = append(v.closers, zr)
		body = zr
	}

	v.reader = bufio.NewReader(body)
	if err := v.parseHeader(); err != nil {
		v.Close()
		return nil, err
	}

	return v, nil
}

// Close releases the decompressor and the underlying file, innermost first.
func (v *VCF) Close() error {
	var first error
	for _, c := range v.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	v.closers = nil

	return first
}

// Header returns the full header, meta lines and column line, each followed
// by a newline.
func (v *VCF) Header() string {
	var sb strings.Builder
	for _, line := range v.Meta {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(v.ColumnHeader)
	sb.WriteByte('\n')

	return sb.String()
}

func (v *VCF) parseHeader() error {
	var contigs []Contig

	for {
		line, err := readLine(v.reader)
		if err == io.EOF {
			return fmt.Errorf("header ended without a %s line", columnPrefix)
		} else if err != nil {
			return pfx.Err(err)
		}

		if strings.HasPrefix(line, metaPrefix) {
			v.Meta = append(v.Meta, line)

			if strings.HasPrefix(line, contigPrefix) {
				contig, err := parseContigLine(line)
				if err != nil {
					return err
				}
				contigs = append(contigs, contig)
			}
			continue
		}

		if !strings.HasPrefix(line, columnPrefix) {
			return fmt.Errorf("expected a %s line after the meta lines, found %q", columnPrefix, line)
		}
		v.ColumnHeader = line
		break
	}

	cl, err := NewContigLengths(contigs)
	if err != nil {
		return err
	}
	v.Contigs = cl

	return nil
}

// parseContigLine parses ##contig=<ID=chr1,length=248956422,...>
func parseContigLine(line string) (Contig, error) {
	body := strings.TrimPrefix(line, contigPrefix)
	if !strings.HasSuffix(body, ">") {
		return Contig{}, &MalformedContigError{Reason: fmt.Sprintf("unterminated contig line %q", line)}
	}

	fields := parseMetaFields(strings.TrimSuffix(body, ">"))

	name := fields["ID"]
	if name == "" {
		return Contig{}, &MalformedContigError{Reason: fmt.Sprintf("contig line %q has no ID", line)}
	}

	rawLength, exists := fields["length"]
	if !exists {
		return Contig{}, &MalformedContigError{Contig: name, Reason: "no length declared"}
	}

	length, err := strconv.ParseInt(rawLength, 10, 64)
	if err != nil {
		return Contig{}, &MalformedContigError{Contig: name, Reason: fmt.Sprintf("length %q is not an integer", rawLength)}
	}

	return Contig{Name: name, Length: length}, nil
}

// parseMetaFields splits key=value pairs on commas, honoring double quotes.
func parseMetaFields(s string) map[string]string {
	fields := make(map[string]string)

	var key, cur strings.Builder
	inQuotes, inValue := false, false

	flush := func() {
		if key.Len() > 0 {
			fields[key.String()] = cur.String()
		}
		key.Reset()
		cur.Reset()
		inValue = false
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			flush()
		case r == '=' && !inValue && !inQuotes:
			inValue = true
		case inValue:
			cur.WriteRune(r)
		default:
			key.WriteRune(r)
		}
	}
	flush()

	return fields
}

// readLine returns the next line without its line terminator. A final line
// without a newline is returned with a nil error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
