// src/services/compliance_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
	"github.com/username/tariffscope/src/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Quote document types understood by the compliance API. quoteTypeMaximum is
// used for duty quotes; quoteTypeClassify requests the stronger
// classification treatment used by the HS resolution flow.
const (
	quoteTypeMaximum  = "QUOTE_MAXIMUM"
	quoteTypeClassify = "QUOTE_CLASSIFY_MAXIMUM"
)

// QuoteError is a structured upstream failure. Body holds the decoded error
// response when it parses as JSON, else the raw text. RequestPayload is the
// document we sent, kept for diagnostic replay.
type QuoteError struct {
	Message        string
	StatusCode     int
	Body           interface{}
	RequestPayload interface{}
	Err            error
}

func (e *QuoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("compliance API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("compliance API error: %s", e.Message)
}

func (e *QuoteError) Unwrap() error { return e.Err }

// Upstream document shapes. Field names match the compliance API wire format.
type quoteClassification struct {
	Country string `json:"country"`
	HSCode  string `json:"hscode"`
}

type quoteParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type quoteItem struct {
	ItemCode                 int                   `json:"itemCode"`
	Description              string                `json:"description"`
	Classifications          []quoteClassification `json:"classifications,omitempty"`
	ClassificationParameters []quoteParameter      `json:"classificationParameters"`
	Parameters               []quoteParameter      `json:"parameters"`
}

type quoteLine struct {
	LineNumber                  int              `json:"lineNumber"`
	Quantity                    int              `json:"quantity"`
	PreferenceProgramApplicable bool             `json:"preferenceProgramApplicable"`
	Item                        quoteItem        `json:"item"`
	ClassificationParameters    []quoteParameter `json:"classificationParameters"`
}

type quoteShipTo struct {
	Country string `json:"country"`
	Region  string `json:"region"`
}

type quoteDestination struct {
	ShipTo        quoteShipTo      `json:"shipTo"`
	Parameters    []quoteParameter `json:"parameters"`
	TaxRegistered bool             `json:"taxRegistered"`
	ImportDate    string           `json:"importDate,omitempty"`
}

type quotePayload struct {
	ID                        string             `json:"id"`
	CompanyID                 int                `json:"companyId"`
	Currency                  string             `json:"currency"`
	SellerCode                string             `json:"sellerCode"`
	B2B                       bool               `json:"b2b"`
	ShipFrom                  map[string]string  `json:"shipFrom"`
	Destinations              []quoteDestination `json:"destinations"`
	Lines                     []quoteLine        `json:"lines"`
	Type                      string             `json:"type"`
	DisableCalculationSummary bool               `json:"disableCalculationSummary"`
	RestrictionsCheck         bool               `json:"restrictionsCheck"`
	Program                   string             `json:"program"`
}

// Response shapes. Only the parts we read are declared; everything else is
// preserved through the raw response passthrough.
type dutyGranularityEntry struct {
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	Type        string  `json:"type"`
}

type complianceResponse struct {
	GlobalCompliance []struct {
		Quote struct {
			Lines []struct {
				CalculationSummary struct {
					DutyGranularity []dutyGranularityEntry `json:"dutyGranularity"`
				} `json:"calculationSummary"`
				Item struct {
					Classifications []quoteClassification `json:"classifications"`
				} `json:"item"`
			} `json:"lines"`
		} `json:"quote"`
	} `json:"globalCompliance"`
}

// complianceServiceImpl implements ComplianceService against the external
// quoting endpoint. Identical requests within the cache TTL are served from
// the quote cache without touching the upstream.
type complianceServiceImpl struct {
	httpClient *http.Client
	baseURL    string
	token      string
	companyID  int
	quoteCache *cache.Cache
}

// NewComplianceService creates the adapter. quoteCache may be nil to disable
// caching (tests do this to exercise the upstream on every call).
func NewComplianceService(baseURL, token string, companyID int, timeout time.Duration, quoteCache *cache.Cache) ComplianceService {
	return &complianceServiceImpl{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		companyID:  companyID,
		quoteCache: quoteCache,
	}
}

// authHeader builds the Basic auth header for the compliance API from the
// configured token.
func (s *complianceServiceImpl) authHeader() string {
	return "Basic " + s.token
}

// normalizeHSCode strips the dots and spaces browsers send in dotted HS
// notation; the upstream wants bare digits.
func normalizeHSCode(code string) string {
	return strings.NewReplacer(".", "", " ", "").Replace(code)
}

// buildQuotePayload assembles the fixed-shape quote document. When the HS
// code is empty the line carries description-only classification parameters,
// which is how the classification flow asks the upstream to classify.
func (s *complianceServiceImpl) buildQuotePayload(req models.QuoteRequest, quoteType string) quotePayload {
	importCountry := req.ImportCountry
	if importCountry == "" {
		importCountry = "US"
	}

	item := quoteItem{
		ItemCode:    11,
		Description: req.Description,
		ClassificationParameters: []quoteParameter{
			{Name: "price", Value: req.CostPerUnit.String(), Unit: "usd"},
			{Name: "coo", Value: req.CountryOfOrigin},
		},
		Parameters: []quoteParameter{
			{Name: "weight", Value: "0", Unit: "lb"},
			{Name: "SHIPPING", Value: "0.00", Unit: "usd"},
		},
	}
	if req.HSCode != "" {
		item.Classifications = []quoteClassification{{
			Country: strings.ToUpper(importCountry),
			HSCode:  normalizeHSCode(req.HSCode),
		}}
	}

	dest := quoteDestination{
		ShipTo:        quoteShipTo{Country: strings.ToLower(importCountry), Region: "ca"},
		Parameters:    []quoteParameter{},
		TaxRegistered: false,
	}
	if !req.ImportDate.IsZero() {
		dest.ImportDate = req.ImportDate.Format(utils.ImportDateFormat)
	}

	return quotePayload{
		ID:         "TARIFF-MODEL-001",
		CompanyID:  s.companyID,
		Currency:   "usd",
		SellerCode: "SELLER-001",
		B2B:        true,
		ShipFrom:   map[string]string{"country": req.VendorCountry},
		Destinations: []quoteDestination{dest},
		Lines: []quoteLine{{
			LineNumber:                  1,
			Quantity:                    req.Quantity,
			PreferenceProgramApplicable: req.SPIApplicable,
			Item:                        item,
			ClassificationParameters:    []quoteParameter{},
		}},
		Type:                      quoteType,
		DisableCalculationSummary: false,
		RestrictionsCheck:         false,
		Program:                   "Regular",
	}
}

// postQuote issues one call against the globalcompliance endpoint. No retry:
// a single failed attempt is surfaced immediately.
func (s *complianceServiceImpl) postQuote(ctx context.Context, payload quotePayload) (*complianceResponse, interface{}, error) {
	url := fmt.Sprintf("%s/companies/%d/globalcompliance", s.baseURL, s.companyID)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, &QuoteError{Message: "failed to encode quote payload", RequestPayload: payload, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, &QuoteError{Message: "failed to build quote request", RequestPayload: payload, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", s.authHeader())

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, &QuoteError{Message: fmt.Sprintf("compliance API call failed: %v", err), RequestPayload: payload, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &QuoteError{Message: "failed to read compliance API response", StatusCode: resp.StatusCode, RequestPayload: payload, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		qe := &QuoteError{
			Message:        fmt.Sprintf("compliance API returned status %d", resp.StatusCode),
			StatusCode:     resp.StatusCode,
			Body:           decodeErrorBody(respBody),
			RequestPayload: payload,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			qe.Message = "authentication with the compliance API failed; check the configured API token"
		}
		return nil, nil, qe
	}

	var parsed complianceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, nil, &QuoteError{Message: "failed to decode compliance API response", StatusCode: resp.StatusCode, RequestPayload: payload, Err: err}
	}

	// Keep the untyped response for passthrough to the caller.
	var raw interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		raw = string(respBody)
	}

	return &parsed, raw, nil
}

// decodeErrorBody returns the body decoded as JSON when possible, else the
// raw text.
func decodeErrorBody(body []byte) interface{} {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}
	return string(body)
}

// QuoteDuties builds the quote document, calls the upstream once, and
// flattens the nested duty breakdown into a uniform line list with totals.
// Fields absent in the response default to zero/empty rather than erroring.
func (s *complianceServiceImpl) QuoteDuties(ctx context.Context, req models.QuoteRequest) (models.DutyQuote, error) {
	cacheKey := quoteCacheKey(req)
	if s.quoteCache != nil {
		if cached, found := s.quoteCache.Get(cacheKey); found {
			logger.L.Debug("Serving duty quote from cache", "key", cacheKey)
			return cached.(models.DutyQuote), nil
		}
	}

	payload := s.buildQuotePayload(req, quoteTypeMaximum)

	parsed, raw, err := s.postQuote(ctx, payload)
	if err != nil {
		return models.DutyQuote{}, err
	}

	quote := flattenDutyBreakdown(parsed, req)
	quote.APIResponse = raw
	quote.RequestPayload = payload

	if s.quoteCache != nil {
		s.quoteCache.SetDefault(cacheKey, quote)
	}

	return quote, nil
}

// flattenDutyBreakdown walks the nested response and produces the flat duty
// line list plus totals.
func flattenDutyBreakdown(parsed *complianceResponse, req models.QuoteRequest) models.DutyQuote {
	dutyLines := []models.DutyLine{}
	totalRate := 0.0

	if len(parsed.GlobalCompliance) > 0 {
		lines := parsed.GlobalCompliance[0].Quote.Lines
		if len(lines) > 0 {
			for _, duty := range lines[0].CalculationSummary.DutyGranularity {
				desc := duty.Description
				if desc == "" {
					desc = "Unknown Duty"
				}
				dutyLines = append(dutyLines, models.DutyLine{
					Description: desc,
					Rate:        duty.Rate,
					RatePercent: utils.RoundFloat(duty.Rate*100, 4),
					Type:        duty.Type,
				})
				totalRate += duty.Rate
			}
		}
	}

	totalAmount := req.CostPerUnit.
		Mul(decimal.NewFromInt(int64(req.Quantity))).
		Mul(decimal.NewFromFloat(totalRate))

	return models.DutyQuote{
		DutyLines:            dutyLines,
		TotalDutyRate:        totalRate,
		TotalDutyRatePercent: utils.RoundFloat(totalRate*100, 4),
		TotalDutyAmount:      totalAmount,
	}
}

// ClassifyHS requests a compliance quote of the stronger classification type
// and returns the HS code the upstream settled on for the line item. An
// empty string means the response carried no classification; that is not an
// error here, the caller decides how to degrade.
func (s *complianceServiceImpl) ClassifyHS(ctx context.Context, req models.QuoteRequest) (string, error) {
	payload := s.buildQuotePayload(req, quoteTypeClassify)

	parsed, _, err := s.postQuote(ctx, payload)
	if err != nil {
		return "", err
	}

	if len(parsed.GlobalCompliance) > 0 {
		lines := parsed.GlobalCompliance[0].Quote.Lines
		if len(lines) > 0 && len(lines[0].Item.Classifications) > 0 {
			return lines[0].Item.Classifications[0].HSCode, nil
		}
	}
	return "", nil
}

func quoteCacheKey(req models.QuoteRequest) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s|%t|%s",
		normalizeHSCode(req.HSCode), req.CountryOfOrigin, req.VendorCountry,
		req.CostPerUnit.String(), req.Quantity, req.ImportCountry,
		req.SPIApplicable, req.ImportDate.Format(utils.ImportDateFormat))
}
