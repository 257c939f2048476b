package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tariffscope/src/models"
)

const mockDutyResponse = `{
	"globalCompliance": [{
		"quote": {
			"lines": [{
				"calculationSummary": {
					"dutyGranularity": [
						{"description": "General Duty", "rate": 0.05, "type": "GENERAL"},
						{"description": "Section 301", "rate": 0.10, "type": "TRADE_REMEDY"}
					]
				},
				"item": {
					"classifications": [{"country": "US", "hscode": "8517620090"}]
				}
			}]
		}
	}]
}`

func testQuoteRequest() models.QuoteRequest {
	return models.QuoteRequest{
		HSCode:          "8517.62.00",
		CountryOfOrigin: "CN",
		VendorCountry:   "CN",
		CostPerUnit:     dec("20"),
		Quantity:        10,
		Description:     "network equipment",
		ImportCountry:   "US",
		ImportDate:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestQuoteDutiesFlattensBreakdown(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(mockDutyResponse))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "test-token", 123, 5*time.Second, nil)

	quote, err := svc.QuoteDuties(context.Background(), testQuoteRequest())
	require.NoError(t, err)

	assert.Equal(t, "/companies/123/globalcompliance", gotPath)
	assert.Equal(t, "Basic test-token", gotAuth)

	require.Len(t, quote.DutyLines, 2)
	assert.Equal(t, "General Duty", quote.DutyLines[0].Description)
	assert.Equal(t, 0.05, quote.DutyLines[0].Rate)
	assert.Equal(t, 5.0, quote.DutyLines[0].RatePercent)
	assert.Equal(t, "TRADE_REMEDY", quote.DutyLines[1].Type)

	assert.InDelta(t, 0.15, quote.TotalDutyRate, 1e-9)
	assert.InDelta(t, 15.0, quote.TotalDutyRatePercent, 1e-9)
	// 10 units * $20 * 0.15
	assert.True(t, quote.TotalDutyAmount.Equal(dec("30")),
		"expected total duty amount 30, got %s", quote.TotalDutyAmount)

	assert.NotNil(t, quote.APIResponse)
	assert.NotNil(t, quote.RequestPayload)

	// The line item carries the bare-digit HS code.
	lines := gotPayload["lines"].([]interface{})
	item := lines[0].(map[string]interface{})["item"].(map[string]interface{})
	classifications := item["classifications"].([]interface{})
	assert.Equal(t, "85176200", classifications[0].(map[string]interface{})["hscode"])
	assert.Equal(t, "QUOTE_MAXIMUM", gotPayload["type"])
}

func TestQuoteDutiesEmptyResponseDefaultsToZero(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "t", 1, 5*time.Second, nil)

	quote, err := svc.QuoteDuties(context.Background(), testQuoteRequest())
	require.NoError(t, err)
	assert.Empty(t, quote.DutyLines)
	assert.Equal(t, 0.0, quote.TotalDutyRate)
	assert.True(t, quote.TotalDutyAmount.IsZero())
}

func TestQuoteDutiesUpstreamErrorCarriesDiagnostics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "invalid hs code"}`))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "t", 1, 5*time.Second, nil)

	_, err := svc.QuoteDuties(context.Background(), testQuoteRequest())
	require.Error(t, err)

	var qe *QuoteError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, http.StatusBadRequest, qe.StatusCode)
	body, ok := qe.Body.(map[string]interface{})
	require.True(t, ok, "error body should decode as JSON")
	assert.Equal(t, "invalid hs code", body["message"])
	assert.NotNil(t, qe.RequestPayload)
}

func TestQuoteDutiesUnauthorizedGetsDistinctMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`unauthorized`))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "bad-token", 1, 5*time.Second, nil)

	_, err := svc.QuoteDuties(context.Background(), testQuoteRequest())
	require.Error(t, err)

	var qe *QuoteError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, http.StatusUnauthorized, qe.StatusCode)
	assert.Contains(t, qe.Message, "authentication with the compliance API failed")
	assert.Equal(t, "unauthorized", qe.Body)
}

func TestQuoteDutiesNonJSONErrorBodyKeptAsText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "t", 1, 5*time.Second, nil)

	_, err := svc.QuoteDuties(context.Background(), testQuoteRequest())
	var qe *QuoteError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "upstream exploded", qe.Body)
}

func TestQuoteDutiesServesIdenticalRequestsFromCache(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(mockDutyResponse))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "t", 1, 5*time.Second, cache.New(time.Minute, time.Minute))

	req := testQuoteRequest()
	first, err := svc.QuoteDuties(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.QuoteDuties(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second identical request should be served from cache")
	assert.Equal(t, first.TotalDutyRate, second.TotalDutyRate)
}

func TestClassifyHSReadsQuoteClassification(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "QUOTE_CLASSIFY_MAXIMUM", payload["type"])
		w.Write([]byte(mockDutyResponse))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "t", 1, 5*time.Second, nil)

	code, err := svc.ClassifyHS(context.Background(), testQuoteRequest())
	require.NoError(t, err)
	assert.Equal(t, "8517620090", code)
}

func TestClassifyHSEmptyWhenNoClassification(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"globalCompliance": [{"quote": {"lines": []}}]}`))
	}))
	defer ts.Close()

	svc := NewComplianceService(ts.URL, "t", 1, 5*time.Second, nil)

	code, err := svc.ClassifyHS(context.Background(), testQuoteRequest())
	require.NoError(t, err)
	assert.Empty(t, code)
}
