// src/services/classification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
)

// Stage-1 wire shapes for the free-text classification service.
type freeTextRequest struct {
	Description        string `json:"description"`
	DestinationCountry string `json:"destinationCountry,omitempty"`
}

type freeTextResponse struct {
	HS6Code             string `json:"hs6Code"`
	InteractionRequired bool   `json:"interactionRequired"`
	Question            string `json:"question"`
}

// classificationServiceImpl resolves HS codes in two stages: a free-text
// classification service first, then the compliance-quote service. Either
// stage may fail or come back empty without sinking the whole resolution.
type classificationServiceImpl struct {
	httpClient *http.Client
	baseURL    string
	token      string
	compliance ComplianceService
}

// NewClassificationService creates the two-stage resolver. The compliance
// service is the stage-2 fallback/authority.
func NewClassificationService(baseURL, token string, timeout time.Duration, compliance ComplianceService) ClassificationService {
	return &classificationServiceImpl{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		compliance: compliance,
	}
}

// classifyFreeText performs the stage-1 call. A transport or decode failure
// is returned as an error; the caller degrades to stage 2 rather than
// surfacing it.
func (s *classificationServiceImpl) classifyFreeText(ctx context.Context, req models.ClassifyRequest) (freeTextResponse, error) {
	var parsed freeTextResponse

	body, err := json.Marshal(freeTextRequest{
		Description:        req.Description,
		DestinationCountry: req.DestinationCountry,
	})
	if err != nil {
		return parsed, fmt.Errorf("failed to encode classification request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return parsed, fmt.Errorf("failed to build classification request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return parsed, fmt.Errorf("classification service call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return parsed, fmt.Errorf("failed to read classification response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parsed, fmt.Errorf("classification service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return parsed, fmt.Errorf("failed to decode classification response: %w", err)
	}
	return parsed, nil
}

// Classify runs the two-stage resolution and returns a tagged outcome. The
// trace records which branches were taken, in order, for debugging.
func (s *classificationServiceImpl) Classify(ctx context.Context, req models.ClassifyRequest) (models.ClassificationResult, error) {
	trace := []string{}

	// Stage 1: free-text classification.
	hs6 := ""
	stage1, err := s.classifyFreeText(ctx, req)
	switch {
	case err != nil:
		trace = append(trace, fmt.Sprintf("stage 1: free-text classification failed: %v", err))
		logger.L.Warn("Free-text classification failed, degrading to quote service", "error", err)
	case stage1.InteractionRequired:
		trace = append(trace, "stage 1: classifier requires interactive disambiguation")
		return models.ClassificationResult{
			Outcome:  models.OutcomeNeedsInteraction,
			Question: stage1.Question,
			Trace:    trace,
		}, nil
	case stage1.HS6Code != "":
		hs6 = stage1.HS6Code
		trace = append(trace, fmt.Sprintf("stage 1: free-text classification produced HS6 code %s", hs6))
	default:
		trace = append(trace, "stage 1: free-text classification produced no code")
	}

	// Verification short-circuit: a success-shaped failure marker, not an
	// HTTP error.
	if req.VerifyDescription && hs6 == "" {
		trace = append(trace, "verification requested but stage 1 produced no code; verification failed")
		return models.ClassificationResult{
			Outcome: models.OutcomeVerificationFailed,
			Trace:   trace,
		}, nil
	}

	// Stage 2: compliance-quote service, with the HS6 classification when we
	// have one, else description-only classification parameters.
	quoteReq := models.QuoteRequest{
		HSCode:          hs6,
		CountryOfOrigin: req.CountryOfOrigin,
		VendorCountry:   req.CountryOfOrigin,
		Description:     req.Description,
		ImportCountry:   req.DestinationCountry,
		Quantity:        1,
	}
	if hs6 != "" {
		trace = append(trace, "stage 2: querying quote service with HS6 classification")
	} else {
		trace = append(trace, "stage 2: querying quote service with description-only classification parameters")
	}

	quoteCode, err := s.compliance.ClassifyHS(ctx, quoteReq)
	if err != nil {
		trace = append(trace, fmt.Sprintf("stage 2: quote service classification failed: %v", err))
		logger.L.Warn("Quote service classification failed", "error", err)
	} else if quoteCode != "" {
		trace = append(trace, fmt.Sprintf("stage 2: quote service returned HS code %s", quoteCode))
	} else {
		trace = append(trace, "stage 2: quote service returned no classification")
	}

	// Resolution priority: quote-service code, then the stage-1 HS6 code.
	switch {
	case quoteCode != "":
		trace = append(trace, "resolution: using quote service HS code")
		return models.ClassificationResult{Outcome: models.OutcomeResolved, HSCode: quoteCode, Trace: trace}, nil
	case hs6 != "":
		trace = append(trace, "resolution: falling back to stage 1 HS6 code")
		return models.ClassificationResult{Outcome: models.OutcomeResolved, HSCode: hs6, Trace: trace}, nil
	default:
		trace = append(trace, "resolution: no stage produced a code")
		return models.ClassificationResult{Outcome: models.OutcomeUnresolved, Trace: trace}, nil
	}
}
