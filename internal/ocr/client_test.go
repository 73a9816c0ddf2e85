package ocr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/ocr"
	"billscan/internal/port"
)

func newTestClient(serverURL string) *ocr.Client {
	return ocr.NewClient(&config.OCRConfig{
		Endpoint:    serverURL,
		APIKey:      "test-ocr-key",
		Model:       "mistral-ocr-latest",
		TimeoutSecs: 30,
	})
}

func TestClient_ReadPages_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-ocr-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "mistral-ocr-latest", reqBody["model"])

		doc := reqBody["document"].(map[string]interface{})
		assert.Equal(t, "document_url", doc["type"])
		assert.Contains(t, doc["document_url"], "data:application/pdf;base64,")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"pages": []map[string]interface{}{
				{"index": 1, "markdown": "  Pharmacy items  ", "confidence": 88.2},
				{"index": 0, "markdown": "Final Bill\nGrand Total 1500", "confidence": 93.5},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	pages, err := c.ReadPages(context.Background(), port.Document{
		Bytes:       []byte("%PDF-1.4 test"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	require.Len(t, pages, 2)
	// pages are ordered by index and numbered from 1
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, "Final Bill\nGrand Total 1500", pages[0].Text)
	assert.Equal(t, 93.5, pages[0].Confidence)
	assert.Equal(t, 2, pages[1].PageNumber)
	assert.Equal(t, "Pharmacy items", pages[1].Text)
}

func TestClient_ReadPages_EmptyPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"pages": []interface{}{}})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	pages, err := c.ReadPages(context.Background(), port.Document{
		Bytes:       []byte("%PDF-1.4 test"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, pages)
	assert.ErrorIs(t, err, domain.ErrNoPages)
}

func TestClient_ReadPages_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	pages, err := c.ReadPages(context.Background(), port.Document{
		Bytes:       []byte("%PDF-1.4 test"),
		ContentType: "application/pdf",
	})

	assert.Nil(t, pages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr API error (status 502)")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestClient_ReadPages_MissingConfidenceDefaultsToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"pages": []map[string]interface{}{
				{"index": 0, "markdown": "some text"},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	pages, err := c.ReadPages(context.Background(), port.Document{
		Bytes:       []byte{0x89, 0x50, 0x4E, 0x47},
		ContentType: "image/png",
	})

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Zero(t, pages[0].Confidence)
}
