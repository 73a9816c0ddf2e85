package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billscan/internal/domain"
	"billscan/internal/handler"
	"billscan/internal/router"
	"billscan/internal/service"
)

type stubExtractionService struct {
	lastInput *service.ExtractionInput
	result    *domain.DocumentResult
}

func (s *stubExtractionService) ExtractDocument(ctx context.Context, input *service.ExtractionInput) *domain.DocumentResult {
	s.lastInput = input
	return s.result
}

func successResult() *domain.DocumentResult {
	return &domain.DocumentResult{
		IsSuccess:  true,
		TokenUsage: domain.UsageRecord{TotalTokens: 120, InputTokens: 100, OutputTokens: 20},
		Data: &domain.DocumentData{
			PagewiseLineItems: []domain.PageLineItems{
				{
					PageNo:   "1",
					PageType: domain.PageTypeFinalBill,
					BillItems: []domain.BillItem{
						{ItemName: "Consultation Fee", ItemRate: 500, ItemQuantity: 2, ItemAmount: 1000},
					},
				},
			},
			TotalItemCount: 1,
		},
	}
}

func setupRouter(svc service.ExtractionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return router.Setup(handler.NewExtractHandler(svc), handler.NewHealthHandler(), nil)
}

func TestExtract_Success(t *testing.T) {
	stub := &stubExtractionService{result: successResult()}
	r := setupRouter(stub)

	body := `{"pages":[{"page_no":1,"text":"some bill text","confidence":95}],"include_summary":true}`
	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, stub.lastInput)
	assert.True(t, stub.lastInput.IncludeSummary)
	require.Len(t, stub.lastInput.Pages, 1)
	assert.Equal(t, 1, stub.lastInput.Pages[0].PageNumber)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["is_success"])
	usage := resp["token_usage"].(map[string]interface{})
	assert.Equal(t, float64(120), usage["total_tokens"])
}

func TestExtract_DocumentURLPassedThrough(t *testing.T) {
	stub := &stubExtractionService{result: successResult()}
	r := setupRouter(stub)

	body := `{"document":"https://example.com/bill.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/bill.pdf", stub.lastInput.DocumentURL)
}

func TestExtract_MalformedBodyStillHTTP200(t *testing.T) {
	stub := &stubExtractionService{result: successResult()}
	r := setupRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.lastInput, "service must not run on malformed input")

	var resp domain.DocumentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsSuccess)
	assert.Contains(t, resp.Error, "invalid request body")
	assert.Zero(t, resp.TokenUsage.TotalTokens)
}

func TestExtract_FailedPipelineStillHTTP200(t *testing.T) {
	stub := &stubExtractionService{result: domain.FailedResult("no pages to process")}
	r := setupRouter(stub)

	body := `{"pages":[]}`
	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.DocumentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsSuccess)
	assert.Equal(t, "no pages to process", resp.Error)
}

func TestExport_CSV(t *testing.T) {
	stub := &stubExtractionService{result: successResult()}
	r := setupRouter(stub)

	body := `{"pages":[{"page_no":1,"text":"bill","confidence":95}]}`
	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data/export?format=csv", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "Consultation Fee")
}

func TestExport_XLSXDefault(t *testing.T) {
	stub := &stubExtractionService{result: successResult()}
	r := setupRouter(stub)

	body := `{"pages":[{"page_no":1,"text":"bill","confidence":95}]}`
	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data/export", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestExport_FailedPipeline(t *testing.T) {
	stub := &stubExtractionService{result: domain.FailedResult("no pages to process")}
	r := setupRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/extract-bill-data/export", bytes.NewBufferString(`{"pages":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthz(t *testing.T) {
	r := setupRouter(&stubExtractionService{result: successResult()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
