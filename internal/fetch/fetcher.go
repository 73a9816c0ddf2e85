package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/port"
)

var contentTypeByFileType = map[domain.FileType]string{
	domain.FileTypePDF: "application/pdf",
	domain.FileTypeJPG: "image/jpeg",
	domain.FileTypePNG: "image/png",
}

// Fetcher downloads documents from http(s) URLs or s3:// object URLs.
type Fetcher struct {
	client   *http.Client
	storage  port.ObjectStorage
	maxBytes int64
}

// NewFetcher creates a document fetcher. The storage argument may be nil,
// in which case s3:// URLs are rejected.
func NewFetcher(cfg *config.FetchConfig, storage port.ObjectStorage) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxFileSizeMB * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 50 * 1024 * 1024
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		storage:  storage,
		maxBytes: maxBytes,
	}
}

// Fetch downloads the document at rawURL and verifies it is a supported type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*port.Document, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, domain.ErrMissingDocumentURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing url: %v", domain.ErrFetchFailed, err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, rawURL, u)
	case "s3":
		return f.fetchS3(ctx, u)
	default:
		return nil, fmt.Errorf("%w: unsupported url scheme %q", domain.ErrFetchFailed, u.Scheme)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, rawURL string, u *url.URL) (*port.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", domain.ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", domain.ErrFetchFailed, resp.StatusCode, u.Host)
	}

	data, err := readCapped(resp.Body, f.maxBytes)
	if err != nil {
		return nil, err
	}

	contentType := resolveContentType(resp.Header.Get("Content-Type"), u.Path)
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}

	return &port.Document{Bytes: data, ContentType: contentType}, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, u *url.URL) (*port.Document, error) {
	if f.storage == nil {
		return nil, fmt.Errorf("%w: s3 storage not configured", domain.ErrFetchFailed)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: invalid s3 url %q", domain.ErrFetchFailed, u.String())
	}

	ft, ok := domain.AllowedExtensions[strings.TrimPrefix(strings.ToLower(path.Ext(key)), ".")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, path.Ext(key))
	}

	data, err := f.storage.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	return &port.Document{Bytes: data, ContentType: contentTypeByFileType[ft]}, nil
}

// readCapped reads at most maxBytes from r and fails when the body exceeds it.
func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	return data, nil
}

// resolveContentType normalizes the response header, falling back to the
// URL path extension when the server sends nothing useful.
func resolveContentType(header, urlPath string) string {
	ct := strings.TrimSpace(strings.Split(header, ";")[0])
	if ct != "" && ct != "application/octet-stream" {
		return strings.ToLower(ct)
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(urlPath)), ".")
	if ft, ok := domain.AllowedExtensions[ext]; ok {
		return contentTypeByFileType[ft]
	}
	return ct
}
