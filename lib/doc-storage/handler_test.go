package docstorage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	signErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) MakeBucket(ctx context.Context) error { return nil }

func (f *fakeS3) PutObject(ctx context.Context, path, contentType string, body []byte) error {
	f.objects[path] = body
	return nil
}

func (f *fakeS3) GetObject(ctx context.Context, path string) ([]byte, error) {
	return f.objects[path], nil
}

func (f *fakeS3) PresignedURL(ctx context.Context, path string, ttl time.Duration) (*url.URL, error) {
	if f.signErr != nil {
		return nil, f.signErr
	}
	return url.Parse("https://s3.local/" + path + "?expires=" + ttl.String())
}

func TestDocStorage(t *testing.T) {
	t.Run(`DerivePath is deterministic and sanitized check`, func(t *testing.T) {
		gateway := impl{client: newFakeS3()}
		first := gateway.DerivePath("u-col", "req-1", "nota spese.pdf")
		second := gateway.DerivePath("u-col", "req-1", "nota spese.pdf")
		require.Equal(t, first, second)
		require.Equal(t, "requests/u-col/req-1/nota_spese.pdf", first)

		other := gateway.DerivePath("u-col", "req-2", "nota spese.pdf")
		require.NotEqual(t, first, other)
	})

	t.Run(`SignURL carries the retrieval ttl check`, func(t *testing.T) {
		gateway := impl{client: newFakeS3()}
		signed := gateway.SignURL(context.Background(), "requests/u-col/req-1/nota.pdf", RetrievalTTL)
		require.NotNil(t, signed)
		require.Contains(t, *signed, "expires=1h0m0s")
	})

	t.Run(`SignURL returns nil on any failure check`, func(t *testing.T) {
		client := newFakeS3()
		client.signErr = errors.New("access denied")
		gateway := impl{client: client}
		require.Nil(t, gateway.SignURL(context.Background(), "requests/u-col/req-1/nota.pdf", RetrievalTTL))
		require.Nil(t, gateway.SignURL(context.Background(), "", RetrievalTTL))
	})

	t.Run(`IssueURLs resolves both documents check`, func(t *testing.T) {
		gateway := impl{client: newFakeS3()}
		signedPath := "requests/u-col/req-1/firmato.pdf"
		pair := gateway.IssueURLs(context.Background(), "requests/u-col/req-1/nota.pdf", &signedPath)
		require.Contains(t, pair.OriginalURL, "nota.pdf")
		require.NotNil(t, pair.SignedURL)
		require.Contains(t, *pair.SignedURL, "firmato.pdf")
	})

	t.Run(`IssueURLs degrades per document check`, func(t *testing.T) {
		client := newFakeS3()
		client.signErr = errors.New("access denied")
		gateway := impl{client: client}
		pair := gateway.IssueURLs(context.Background(), "requests/u-col/req-1/nota.pdf", nil)
		require.Equal(t, "", pair.OriginalURL)
		require.Nil(t, pair.SignedURL)
	})

	t.Run(`upload then download round trip check`, func(t *testing.T) {
		gateway := impl{client: newFakeS3()}
		path := gateway.DerivePath("u-col", "req-1", "nota.pdf")
		require.Nil(t, gateway.Upload(context.Background(), path, "application/pdf", []byte("doc")))
		body, err := gateway.Download(context.Background(), path)
		require.Nil(t, err)
		require.Equal(t, []byte("doc"), body)
	})
}
