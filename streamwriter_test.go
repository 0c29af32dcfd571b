package permutevcf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "0.vcf.gz"), StreamPath("out", 0, CompressionGzip))
	assert.Equal(t, filepath.Join("out", "12.vcf"), StreamPath("out", 12, CompressionNone))
	assert.Equal(t, "gs://bucket/perm/3.vcf.zst", StreamPath("gs://bucket/perm/", 3, CompressionZStandard))
	assert.Equal(t, "gs://bucket/perm/3.vcf.zst", StreamPath("gs://bucket/perm", 3, CompressionZStandard))
}

func TestCreateStreams(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZStandard} {
		t.Run(c.String(), func(t *testing.T) {
			src, err := Open(testVCF)
			require.NoError(t, err)
			defer src.Close()

			dir := filepath.Join(t.TempDir(), "nested", "permutations")
			sw, err := CreateStreams(dir, 3, src, c)
			require.NoError(t, err)
			require.Len(t, sw.Paths, 3)

			variants := readAll(t, src)
			for i, v := range variants {
				for stream := 0; stream < 3; stream++ {
					pos := GenomicPosition{Contig: "chr10", Position: int64(100*stream + i + 1)}
					require.NoError(t, sw.Assign(v, Assignment{Variant: i, Stream: stream, Position: pos}))
				}
			}
			require.NoError(t, sw.Close())

			for stream, path := range sw.Paths {
				assert.Equal(t, StreamPath(dir, stream, c), path)

				out, err := Open(path)
				require.NoError(t, err)

				assert.Equal(t, c, out.Compression)
				assert.Equal(t, src.Header(), out.Header())

				got := readAll(t, out)
				require.Len(t, got, len(variants))
				for i, v := range got {
					assert.Equal(t, "chr10", v.Chromosome)
					assert.EqualValues(t, 100*stream+i+1, v.Position)
					assert.Equal(t, variants[i].ID, v.ID)
					assert.Equal(t, variants[i].Ref, v.Ref)
					assert.Equal(t, variants[i].Alt, v.Alt)
					assert.Equal(t, variants[i].fields[columnInfo:], v.fields[columnInfo:], "columns after POS are copied verbatim")
				}
				require.NoError(t, out.Close())
			}
		})
	}
}

func TestStreamWritersUnknownStream(t *testing.T) {
	src, err := Open(testVCF)
	require.NoError(t, err)
	defer src.Close()

	sw, err := CreateStreams(t.TempDir(), 1, src, CompressionNone)
	require.NoError(t, err)
	defer sw.Close()

	v := mustVariant(t, "chr1", "10", "snv", "A", "T", ".", ".", ".")
	assert.Error(t, sw.Assign(v, Assignment{Stream: 1}))
	assert.Error(t, sw.Assign(v, Assignment{Stream: -1}))
}

func TestCreateStreamsRequiresStreams(t *testing.T) {
	src, err := Open(testVCF)
	require.NoError(t, err)
	defer src.Close()

	dir := t.TempDir()
	_, err = CreateStreams(dir, 0, src, CompressionGzip)
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
