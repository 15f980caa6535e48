// Package entity defines the core domain types for text credibility analysis.
// All types are constructed per-request and never persisted.
package entity

// Verdict values produced by the heuristic assessor.
// The delegated assessor may return free-text verdicts from the external model.
const (
	VerdictLikelyReliable    = "Likely Reliable"
	VerdictNeedsVerification = "Needs Verification"
)

// AnalysisRequest carries the text to analyze and its optional source URL.
// It is immutable for the lifetime of a request.
type AnalysisRequest struct {
	Content   string `json:"content"`
	SourceURL string `json:"source_url,omitempty"`
}

// AnalysisResult is the credibility assessment returned by either strategy.
//
// CredibilityScore is capped at 100 but has no enforced floor: heavily
// penalized content can score below zero.
type AnalysisResult struct {
	CredibilityScore       int      `json:"credibility_score"`
	FlagsDetected          []string `json:"flags_detected"`
	Explanation            []string `json:"explanation"`
	FinalVerdict           string   `json:"final_verdict"`
	VerificationSuggestion *string  `json:"verification_suggestion,omitempty"`
}

// RepairResult holds the outcome of a phrase-repair pass.
//
// Invariant: when no risk phrase is detected and the length threshold is met,
// RepairedText equals OriginalText.
type RepairResult struct {
	OriginalText      string `json:"original_text"`
	RepairedText      string `json:"repaired_text"`
	RepairExplanation string `json:"repair_explanation"`
}
