package extract

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"billscan/internal/domain"
	"billscan/internal/port"
)

// Adapter wraps a provider client with rate limiting, a per-call timeout,
// and output normalization. Extraction failures degrade to an empty item
// list so a bad page never fails the whole document.
type Adapter struct {
	extractor port.ItemExtractor
	limiter   *rate.Limiter
	timeout   time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRateLimit throttles provider calls to ratePerSecond with the given burst.
func WithRateLimit(ratePerSecond float64, burst int) Option {
	return func(a *Adapter) {
		if ratePerSecond > 0 {
			if burst <= 0 {
				burst = 1
			}
			a.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
		}
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAdapter creates an Adapter around the given provider client.
func NewAdapter(extractor port.ItemExtractor, opts ...Option) *Adapter {
	a := &Adapter{
		extractor: extractor,
		timeout:   60 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Extract runs the provider against one page of text. Blank text returns
// immediately with no items and no usage. Provider errors are logged and
// degraded to an empty result.
func (a *Adapter) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return &port.ExtractOutput{}, nil
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.extractor.Extract(callCtx, input)
	if err != nil {
		log.Printf("extract.Adapter: extraction failed for page %d: %v", input.PageNumber, err)
		return &port.ExtractOutput{}, nil
	}

	return &port.ExtractOutput{
		Items: normalizeItems(out.Items),
		Usage: out.Usage,
	}, nil
}

// normalizeItems rounds rate and quantity and recomputes the amount from
// them, overriding whatever amount the provider returned.
func normalizeItems(items []domain.BillItem) []domain.BillItem {
	if len(items) == 0 {
		return nil
	}
	normalized := make([]domain.BillItem, 0, len(items))
	for _, item := range items {
		rate := domain.Round2(float64(item.ItemRate))
		qty := domain.Round2(float64(item.ItemQuantity))
		normalized = append(normalized, domain.BillItem{
			ItemName:     item.ItemName,
			ItemRate:     domain.Money(rate),
			ItemQuantity: domain.Money(qty),
			ItemAmount:   domain.Money(domain.Round2(float64(item.ItemRate) * float64(item.ItemQuantity))),
		})
	}
	return normalized
}
