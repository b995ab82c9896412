package storage

import (
	"context"
	"io"
)

// BlobStore keeps rendered artifacts such as result reports.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// ReportKey is where the PDF for an attempt is archived.
func ReportKey(attemptID string) string { return "reports/" + attemptID + ".pdf" }
