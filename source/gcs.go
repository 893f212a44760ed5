package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// NewGCSFunc constructs a GCS-backed Opener.
type NewGCSFunc func(ctx context.Context) (Opener, error)

// GCS is an Opener for gs://bucket/object locations.
type GCS struct {
	client *storage.Client
}

var (
	defaultStorageClient     *storage.Client
	defaultStorageClientErr  error
	initDefaultStorageClient sync.Once
)

func newGCSWithOptions(ctx context.Context, opts ...option.ClientOption) (Opener, error) {
	initDefaultStorageClient.Do(func() {
		defaultStorageClient, defaultStorageClientErr = storage.NewClient(ctx, opts...)
	})
	if defaultStorageClientErr != nil {
		return nil, defaultStorageClientErr
	}
	return &GCS{client: defaultStorageClient}, nil
}

// NewDefaultGCS returns an Opener that uses the application default
// credentials.  The underlying storage client is cached for efficiency.
func NewDefaultGCS(ctx context.Context) (Opener, error) {
	return newGCSWithOptions(ctx)
}

// NewPublicGCS returns an Opener without any form of client authorization.
// It can only read publicly-readable objects.  The underlying storage client
// is cached for efficiency.
func NewPublicGCS(ctx context.Context) (Opener, error) {
	return newGCSWithOptions(ctx, option.WithHTTPClient(http.DefaultClient))
}

// NewGCSFromBearerToken returns a NewGCSFunc that uses the OAuth2 bearer
// token found in req to make storage requests.
func NewGCSFromBearerToken(req *http.Request) NewGCSFunc {
	return func(ctx context.Context) (Opener, error) {
		fields := strings.Split(req.Header.Get("Authorization"), " ")
		if len(fields) != 2 || fields[0] != "Bearer" {
			return nil, fmt.Errorf("missing or invalid bearer token")
		}
		token := oauth2.Token{TokenType: fields[0], AccessToken: fields[1]}
		client, err := storage.NewClient(ctx,
			option.WithTokenSource(oauth2.StaticTokenSource(&token)))
		if err != nil {
			return nil, fmt.Errorf("creating client with token source: %v", err)
		}
		return &GCS{client: client}, nil
	}
}

// Open reads the object at a gs://bucket/object location.
func (g *GCS) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, object, err := parseGSLocation(location)
	if err != nil {
		return nil, err
	}
	reader, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err == storage.ErrObjectNotExist {
		return nil, fmt.Errorf("object %q does not exist in bucket %q", object, bucket)
	}
	return reader, err
}

func parseGSLocation(location string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(location, "gs://")
	if parts := strings.SplitN(trimmed, "/", 2); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return parts[0], parts[1], nil
	}
	return "", "", fmt.Errorf("invalid GCS location %q (want gs://bucket/object)", location)
}
