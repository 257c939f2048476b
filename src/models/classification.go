package models

// ClassificationOutcome tags how an HS classification attempt ended.
type ClassificationOutcome string

const (
	// OutcomeResolved means a final HS code was determined.
	OutcomeResolved ClassificationOutcome = "resolved"
	// OutcomeNeedsInteraction means the classifier needs a follow-up answer
	// from the user before it can finish.
	OutcomeNeedsInteraction ClassificationOutcome = "needs_interaction"
	// OutcomeVerificationFailed means verification was requested and the
	// free-text stage produced no code. This is a success-shaped response
	// carrying a failure marker, not an HTTP error.
	OutcomeVerificationFailed ClassificationOutcome = "verification_failed"
	// OutcomeUnresolved means neither stage produced a code.
	OutcomeUnresolved ClassificationOutcome = "unresolved"
)

// ClassifyRequest is the input to the two-stage HS classification adapter.
type ClassifyRequest struct {
	Description        string `json:"description"`
	CountryOfOrigin    string `json:"coo"`
	DestinationCountry string `json:"destination_country"`
	VerifyDescription  bool   `json:"verify_description"`
}

// ClassificationResult is the tagged outcome of a classification attempt.
// Trace records, in order, which branches were taken; it exists purely for
// debugging and is returned to the caller verbatim.
type ClassificationResult struct {
	Outcome  ClassificationOutcome `json:"outcome"`
	HSCode   string                `json:"hs_code,omitempty"`
	Question string                `json:"question,omitempty"`
	Trace    []string              `json:"trace"`
}
