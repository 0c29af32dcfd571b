package permutevcf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]Compression{
		"":          CompressionNone,
		"none":      CompressionNone,
		"gzip":      CompressionGzip,
		"GZ":        CompressionGzip,
		"bgzip":     CompressionGzip,
		"zstd":      CompressionZStandard,
		"zstandard": CompressionZStandard,
	} {
		got, err := ParseCompression(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseCompression("bzip2")
	assert.Error(t, err)
}

func TestCompressionNames(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZStandard} {
		parsed, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	assert.Equal(t, ".vcf", CompressionNone.Extension())
	assert.Equal(t, ".vcf.gz", CompressionGzip.Extension())
	assert.Equal(t, ".vcf.zst", CompressionZStandard.Extension())
	assert.Equal(t, "Illegal selection", Compression(9).String())
}

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, CompressionGzip, DetectCompression([]byte{0x1f, 0x8b, 0x08, 0x04}))
	assert.Equal(t, CompressionZStandard, DetectCompression([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	assert.Equal(t, CompressionNone, DetectCompression([]byte("##fi")))
	assert.Equal(t, CompressionNone, DetectCompression(nil))
}

func TestTimeScan(t *testing.T) {
	var tm Time

	require.NoError(t, tm.Scan(int64(1700000000)))
	assert.EqualValues(t, 1700000000, time.Time(tm).Unix())

	require.NoError(t, tm.Scan([]byte("2024-03-01 12:30:00")))
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), time.Time(tm))

	assert.Error(t, tm.Scan(3.5))

	v, err := Time(time.Unix(42, 0)).Value()
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)
}

func TestExpandHome(t *testing.T) {
	path, err := ExpandHome("relative/file.vcf")
	require.NoError(t, err)
	assert.Equal(t, "relative/file.vcf", path)

	path, err = ExpandHome("~/file.vcf")
	require.NoError(t, err)
	assert.NotContains(t, path, "~")
}

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := splitGoogleStoragePath("gs://my-bucket/dir/in.vcf.gz")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "dir/in.vcf.gz", object)

	for _, bad := range []string{"gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err := splitGoogleStoragePath(bad)
		assert.Error(t, err, bad)
	}

	assert.True(t, IsGoogleStorage("gs://b/o"))
	assert.False(t, IsGoogleStorage("/tmp/gs://b/o"))
}
