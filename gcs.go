package permutevcf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const googleStoragePrefix = "gs://"

// IsGoogleStorage reports whether path names a Cloud Storage object.
func IsGoogleStorage(path string) bool {
	return strings.HasPrefix(path, googleStoragePrefix)
}

func splitGoogleStoragePath(path string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(path, googleStoragePrefix)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%s is not of the form gs://bucket/object", path)
	}

	return parts[0], parts[1], nil
}

// gsReader closes the object reader and then the client that owns it.
type gsReader struct {
	*storage.Reader
	client *storage.Client
}

func (g gsReader) Close() error {
	err := g.Reader.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}

type gsWriter struct {
	*storage.Writer
	client *storage.Client
}

func (g gsWriter) Close() error {
	err := g.Writer.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func openGoogleStorage(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, object, err := splitGoogleStoragePath(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, pfx.Err(err)
	}

	return gsReader{Reader: r, client: client}, nil
}

// Writes are not visible in the bucket until Close succeeds.
func createGoogleStorage(ctx context.Context, path string) (io.WriteCloser, error) {
	bucket, object, err := splitGoogleStoragePath(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return gsWriter{Writer: client.Bucket(bucket).Object(object).NewWriter(ctx), client: client}, nil
}
