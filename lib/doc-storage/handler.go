package docstorage

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	s3client "staff-tools-backend/s3"
	"staff-tools-backend/lib/utils/helpers"
)

// RetrievalTTL bounds every signed document link.
const RetrievalTTL = time.Hour

const signTimeout = 5 * time.Second

type URLPair struct {
	OriginalURL string
	SignedURL   *string
}

type Provider interface {
	// DerivePath is deterministic and collision-free per
	// (owner, request, filename).
	DerivePath(ownerID, requestID, fileName string) string
	Upload(ctx context.Context, path, contentType string, body []byte) error
	Download(ctx context.Context, path string) ([]byte, error)
	// SignURL returns nil on any failure, it never propagates storage errors.
	SignURL(ctx context.Context, path string, ttl time.Duration) *string
	// IssueURLs resolves the original and optional countersigned document
	// with two independent parallel lookups.
	IssueURLs(ctx context.Context, originalPath string, signedPath *string) URLPair
}

var Instance Provider

func NewHandler(client s3client.Provider) {
	Instance = &impl{
		client: client,
	}
}

type impl struct {
	client s3client.Provider
}

func (i impl) DerivePath(ownerID, requestID, fileName string) string {
	return fmt.Sprintf("requests/%s/%s/%s", ownerID, requestID, helpers.SanitizeFileName(fileName))
}

func (i impl) Upload(ctx context.Context, path, contentType string, body []byte) error {
	return i.client.PutObject(ctx, path, contentType, body)
}

func (i impl) Download(ctx context.Context, path string) ([]byte, error) {
	return i.client.GetObject(ctx, path)
}

func (i impl) SignURL(ctx context.Context, path string, ttl time.Duration) *string {
	if path == "" || helpers.IsContextDone(ctx) {
		return nil
	}
	signCtx, cancel := context.WithTimeout(ctx, signTimeout)
	defer cancel()
	signed, err := i.client.PresignedURL(signCtx, path, ttl)
	if err != nil {
		log.WithError(err).
			WithField("path", path).
			Error("url signing failed")
		return nil
	}
	result := signed.String()
	return &result
}

func (i impl) IssueURLs(ctx context.Context, originalPath string, signedPath *string) URLPair {
	pair := URLPair{}
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if url := i.SignURL(ctx, originalPath, RetrievalTTL); url != nil {
			pair.OriginalURL = *url
		}
	}()
	if signedPath != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair.SignedURL = i.SignURL(ctx, *signedPath, RetrievalTTL)
		}()
	}
	wg.Wait()
	return pair
}
