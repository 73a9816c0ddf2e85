package service

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"billscan/internal/domain"
	"billscan/internal/fraud"
	"billscan/internal/pagetype"
	"billscan/internal/port"
	"billscan/internal/reconcile"
	"billscan/internal/tableparse"
	"billscan/internal/usage"
)

const defaultPageConcurrency = 4

// ExtractionInput is the DTO for a document extraction request. Exactly one
// of DocumentURL or Pages drives the pipeline; Pages wins when both are set.
type ExtractionInput struct {
	DocumentURL    string
	Pages          []domain.Page
	IncludeSummary bool
}

// ExtractionService defines the bill extraction contract.
type ExtractionService interface {
	ExtractDocument(ctx context.Context, input *ExtractionInput) *domain.DocumentResult
}

type extractionService struct {
	fetcher     port.DocumentFetcher
	reader      port.PageReader
	fallback    port.ItemExtractor
	parser      *tableparse.Parser
	concurrency int
}

// NewExtractionService creates a new ExtractionService implementation.
// fetcher and reader may be nil when the service only handles pre-recognized
// page input.
func NewExtractionService(
	fetcher port.DocumentFetcher,
	reader port.PageReader,
	fallback port.ItemExtractor,
	concurrency int,
) ExtractionService {
	if concurrency <= 0 {
		concurrency = defaultPageConcurrency
	}
	return &extractionService{
		fetcher:     fetcher,
		reader:      reader,
		fallback:    fallback,
		parser:      tableparse.New(),
		concurrency: concurrency,
	}
}

// pageOutcome carries one page's extraction result plus its fallback usage.
type pageOutcome struct {
	result domain.PageResult
	usage  *domain.UsageRecord
}

func (s *extractionService) ExtractDocument(ctx context.Context, input *ExtractionInput) *domain.DocumentResult {
	docID := uuid.NewString()[:8]
	s.transition(docID, domain.StateReceived)

	pages, err := s.resolvePages(ctx, input)
	if err != nil {
		s.transition(docID, domain.StateFailed)
		return domain.FailedResult(err.Error())
	}
	if len(pages) == 0 {
		s.transition(docID, domain.StateFailed)
		return domain.FailedResult(domain.ErrNoPages.Error())
	}
	if allBlank(pages) {
		s.transition(docID, domain.StateFailed)
		return domain.FailedResult(domain.ErrNoText.Error())
	}

	s.transition(docID, domain.StateClassifying)
	types := make([]domain.PageType, len(pages))
	for i, p := range pages {
		types[i] = pagetype.Classify(p.Text)
	}

	s.transition(docID, domain.StateExtracting)
	outcomes := make([]pageOutcome, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			outcome, err := s.extractPage(gctx, page, types[i])
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.transition(docID, domain.StateFailed)
		return domain.FailedResult(err.Error())
	}

	acc := usage.NewAccumulator()
	for _, o := range outcomes {
		if o.usage != nil {
			acc.Add(*o.usage)
		}
	}

	s.transition(docID, domain.StateReconciling)
	pageResults := make([]domain.PageResult, len(outcomes))
	allItems := make([]domain.BillItem, 0)
	for i, o := range outcomes {
		validated := reconcile.ValidateItems(o.result.Items)
		pageResults[i] = domain.PageResult{
			PageNumber: o.result.PageNumber,
			PageType:   o.result.PageType,
			Items:      validated,
			Confidence: o.result.Confidence,
		}
		allItems = append(allItems, validated...)
	}
	reconciled := reconcile.Reconcile(allItems)

	data := &domain.DocumentData{
		PagewiseLineItems: make([]domain.PageLineItems, len(pageResults)),
		TotalItemCount:    reconciled.ItemCount,
	}
	for i, pr := range pageResults {
		items := pr.Items
		if items == nil {
			items = []domain.BillItem{}
		}
		data.PagewiseLineItems[i] = domain.PageLineItems{
			PageNo:    strconv.Itoa(pr.PageNumber),
			PageType:  pr.PageType,
			BillItems: items,
		}
	}

	if input.IncludeSummary {
		s.transition(docID, domain.StateEvaluating)
		amount := domain.Money(reconciled.Total)
		data.ReconciledAmount = &amount
		data.FraudFlags = fraud.Evaluate(pageResults, reconciled.Total, statedTotal(pageResults, pages))
	}

	s.transition(docID, domain.StateCompleted)
	return &domain.DocumentResult{
		IsSuccess:  true,
		TokenUsage: acc.Snapshot(),
		Data:       data,
	}
}

// resolvePages yields the page set to extract from: inline pages as given,
// otherwise fetch plus text recognition of the referenced document.
func (s *extractionService) resolvePages(ctx context.Context, input *ExtractionInput) ([]domain.Page, error) {
	if len(input.Pages) > 0 {
		return input.Pages, nil
	}
	if strings.TrimSpace(input.DocumentURL) == "" {
		return nil, domain.ErrMissingDocumentURL
	}
	if s.fetcher == nil || s.reader == nil {
		return nil, domain.ErrMissingDocumentURL
	}
	doc, err := s.fetcher.Fetch(ctx, input.DocumentURL)
	if err != nil {
		return nil, err
	}
	return s.reader.ReadPages(ctx, *doc)
}

// extractPage runs the strategy cascade and, when it yields nothing on a
// non-blank page, the fallback extractor.
func (s *extractionService) extractPage(ctx context.Context, page domain.Page, pt domain.PageType) (pageOutcome, error) {
	items := s.parser.Parse(page.Text)
	var pageUsage *domain.UsageRecord
	if len(items) == 0 && strings.TrimSpace(page.Text) != "" && s.fallback != nil {
		log.Printf("service.Extraction: cascade found 0 items for page %d, falling back to LLM extraction", page.PageNumber)
		out, err := s.fallback.Extract(ctx, port.ExtractInput{Text: page.Text, PageNumber: page.PageNumber})
		if err != nil {
			return pageOutcome{}, err
		}
		items = out.Items
		pageUsage = out.Usage
	} else if len(items) > 0 {
		log.Printf("service.Extraction: cascade found %d items for page %d, no LLM tokens used", len(items), page.PageNumber)
	}
	return pageOutcome{
		result: domain.PageResult{
			PageNumber: page.PageNumber,
			PageType:   pt,
			Items:      items,
			Confidence: page.Confidence,
		},
		usage: pageUsage,
	}, nil
}

func allBlank(pages []domain.Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// statedTotal scans Final Bill pages for the document's own grand total.
// The last stated total in page order wins.
func statedTotal(results []domain.PageResult, pages []domain.Page) *float64 {
	var found *float64
	for i, pr := range results {
		if pr.PageType != domain.PageTypeFinalBill {
			continue
		}
		if v, ok := reconcile.StatedTotal(pages[i].Text); ok {
			total := v
			found = &total
		}
	}
	return found
}

func (s *extractionService) transition(docID string, state domain.PipelineState) {
	log.Printf("service.Extraction: document %s state=%s", docID, state)
}
