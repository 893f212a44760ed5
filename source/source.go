// Package source opens input tables by location: plain file paths and
// gs://bucket/object URLs behind one interface, so binaries can read call,
// band and segment tables from local disk or Google Cloud Storage alike.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Opener opens the table stored at a named location for reading.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Files is an Opener over the local filesystem.
type Files struct{}

// Open opens a local file.
func (Files) Open(_ context.Context, location string) (io.ReadCloser, error) {
	return os.Open(location)
}

// Auto dispatches by location scheme: gs:// locations go to GCS, everything
// else to the local filesystem.  GCS is a NewGCSFunc so credentials are only
// set up when a GCS location actually appears.
type Auto struct {
	// NewGCS constructs the GCS opener on first use.  Defaults to
	// NewPublicGCS.
	NewGCS NewGCSFunc

	gcs Opener
}

// Open opens location with the opener its scheme selects.
func (a *Auto) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "gs://") {
		return Files{}.Open(ctx, location)
	}
	if a.gcs == nil {
		newGCS := a.NewGCS
		if newGCS == nil {
			newGCS = NewPublicGCS
		}
		gcs, err := newGCS(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %v", err)
		}
		a.gcs = gcs
	}
	return a.gcs.Open(ctx, location)
}
