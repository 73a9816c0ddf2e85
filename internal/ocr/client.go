package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/port"
)

// Client implements port.PageReader against a Mistral-compatible OCR API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates an OCR client from config.
func NewClient(cfg *config.OCRConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.mistral.ai/v1/ocr"
	}
	model := cfg.Model
	if model == "" {
		model = "mistral-ocr-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// ocrPage models one page of the OCR API response. Index is 0-based.
type ocrPage struct {
	Index      int     `json:"index"`
	Markdown   string  `json:"markdown"`
	Confidence float64 `json:"confidence"`
}

type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
}

// ReadPages sends the document to the OCR service and returns its pages in
// order, numbered from 1.
func (c *Client) ReadPages(ctx context.Context, doc port.Document) ([]domain.Page, error) {
	encoded := base64.StdEncoding.EncodeToString(doc.Bytes)
	dataURI := fmt.Sprintf("data:%s;base64,%s", doc.ContentType, encoded)

	body := map[string]any{
		"model": c.model,
		"document": map[string]any{
			"type":         "document_url",
			"document_url": dataURI,
		},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ocr API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("ocr API error (status %d): %s", resp.StatusCode, string(slurp))
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(parsed.Pages) == 0 {
		return nil, domain.ErrNoPages
	}

	sort.Slice(parsed.Pages, func(i, j int) bool {
		return parsed.Pages[i].Index < parsed.Pages[j].Index
	})

	pages := make([]domain.Page, 0, len(parsed.Pages))
	for _, p := range parsed.Pages {
		pages = append(pages, domain.Page{
			PageNumber: p.Index + 1,
			Text:       strings.TrimSpace(p.Markdown),
			Confidence: p.Confidence,
		})
	}
	return pages, nil
}
