// Package assess implements the local heuristic credibility assessor.
// It scores text with deterministic keyword and length rules and needs no
// external services, which makes it the default strategy and the fallback
// configuration when no AI provider credential is available.
package assess

import (
	"strings"

	"credible-backend/internal/domain/entity"
	"credible-backend/internal/utils/text"
)

const (
	baseScore        = 80
	maxScore         = 100
	verdictThreshold = 70

	overconfidentPenalty = 20
	shortContentPenalty  = 10
	minWordCount         = 10

	wikipediaBonus = 10
	eduGovBonus    = 15
)

// Flags attached to detected risk patterns. These are machine-readable labels
// and part of the API contract; do not reword them.
const (
	FlagOverconfident       = "Overconfident language"
	FlagInsufficientContext = "Insufficient context"
)

// Human-readable reasons paired with score adjustments.
const (
	reasonOverconfident = "Overconfident language detected without supporting evidence."
	reasonShortContent  = "Content is very short and lacks sufficient context."
	reasonWikipedia     = "Source URL points to Wikipedia, a generally moderated reference."
	reasonEduGov        = "Source URL is from an academic or government domain."
)

// Fixed advisory strings returned when the final verdict needs verification.
const (
	suggestOverconfident = "Cross-check this claim against multiple credible sources before sharing it."
	suggestShortContent  = "Seek more background information and supporting details from established outlets."
	suggestGeneric       = "Consult trusted academic or educational sources to verify this content."
)

// Service performs heuristic credibility assessment. It is stateless and
// safe for concurrent use.
type Service struct{}

// Assess scores the given content and optional source URL.
//
// The rules, in order: start at 80; subtract 20 when the lowercased content
// contains "definitely" or "always"; subtract 10 when the content has fewer
// than 10 whitespace-delimited words; add a single source bonus (+10 for
// wikipedia.org, otherwise +15 for .edu/.gov — first match wins); cap at 100.
//
// The score is intentionally not floored at zero. Heavily penalized input can
// in principle go negative; the original scoring rules behave this way and
// the quirk is preserved verbatim.
//
// The function is total: any string input, including the empty string,
// produces a result.
func (s Service) Assess(content, sourceURL string) entity.AnalysisResult {
	score := baseScore
	flags := []string{}
	reasons := []string{}

	lowered := strings.ToLower(content)

	if strings.Contains(lowered, "definitely") || strings.Contains(lowered, "always") {
		score -= overconfidentPenalty
		flags = append(flags, FlagOverconfident)
		reasons = append(reasons, reasonOverconfident)
	}

	if text.CountWords(content) < minWordCount {
		score -= shortContentPenalty
		flags = append(flags, FlagInsufficientContext)
		reasons = append(reasons, reasonShortContent)
	}

	// 出典ボーナスは1つだけ適用（wikipedia が優先）
	bonus := 0
	if sourceURL != "" {
		switch {
		case strings.Contains(sourceURL, "wikipedia.org"):
			bonus = wikipediaBonus
			reasons = append(reasons, reasonWikipedia)
		case strings.Contains(sourceURL, ".edu") || strings.Contains(sourceURL, ".gov"):
			bonus = eduGovBonus
			reasons = append(reasons, reasonEduGov)
		}
	}

	score += bonus
	if score > maxScore {
		score = maxScore
	}

	result := entity.AnalysisResult{
		CredibilityScore: score,
		FlagsDetected:    flags,
		Explanation:      reasons,
		FinalVerdict:     entity.VerdictLikelyReliable,
	}

	if score < verdictThreshold {
		result.FinalVerdict = entity.VerdictNeedsVerification
		suggestion := suggest(flags)
		result.VerificationSuggestion = &suggestion
	}

	return result
}

// suggest picks the advisory string for a low-scoring result. The
// overconfident-language advisory takes priority over the short-context one;
// anything else falls back to the generic advisory.
func suggest(flags []string) string {
	for _, f := range flags {
		if f == FlagOverconfident {
			return suggestOverconfident
		}
	}
	for _, f := range flags {
		if f == FlagInsufficientContext {
			return suggestShortContent
		}
	}
	return suggestGeneric
}
