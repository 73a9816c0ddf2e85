package port

import "context"

// DocumentFetcher resolves a document URL to raw bytes. Implementations
// cover http(s) downloads and s3:// object reads.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// ObjectStorage abstracts object-store reads for s3:// document URLs.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
