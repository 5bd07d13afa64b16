package receipt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Parse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.jpg", header.Filename)

		json.NewEncoder(w).Encode(ParseResult{
			RawText:    "SHAWARMA HOUSE\nFalafel Wrap 10.00",
			Confidence: 0.92,
			Engine:     "tesseract",
			Receipt: ParsedReceipt{
				Restaurant: "Shawarma House",
				Items: []ParsedItem{
					{Name: "Falafel Wrap", Price: 10.0, Quantity: 1},
				},
				Subtotal: 10.0,
				Total:    11.0,
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	result, err := client.Parse(context.Background(), strings.NewReader("fake image bytes"), "receipt.jpg")
	require.NoError(t, err)

	assert.Equal(t, "tesseract", result.Engine)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
	assert.Equal(t, "Shawarma House", result.Receipt.Restaurant)
	require.Len(t, result.Receipt.Items, 1)
	assert.Equal(t, "Falafel Wrap", result.Receipt.Items[0].Name)
}

func TestHTTPClient_Parse_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	_, err := client.Parse(context.Background(), strings.NewReader("fake image bytes"), "receipt.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestHTTPClient_Parse_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	_, err := client.Parse(context.Background(), strings.NewReader("fake image bytes"), "receipt.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parser service response")
}
