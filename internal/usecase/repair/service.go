// Package repair implements literal phrase repair for flagged text.
// It softens absolute claims by substituting fixed hedged phrases without
// otherwise altering the text.
package repair

import (
	"strings"

	"credible-backend/internal/domain/entity"
	"credible-backend/internal/utils/text"
)

const minWordCount = 10

// noRepairExplanation is the fixed explanation returned when no trigger fires.
const noRepairExplanation = "No risky or misleading claims detected. No repair required."

const (
	reasonOverconfident = "Overconfident wording was softened to reflect the available evidence."
	reasonShortContent  = "The text is very short, so its claims lack surrounding context."
)

// substitutions maps each risk token to its hedged replacement. Replacement
// is literal and case-sensitive: only the lowercase token is targeted, so
// occurrences in other casings (e.g. "Definitely") survive untouched. This
// mirrors the original repair behavior and is documented, not a bug to fix.
var substitutions = []struct {
	token       string
	replacement string
}{
	{"definitely", "according to available evidence"},
	{"always", "in most documented cases"},
}

// Service performs phrase repair. It is stateless and safe for concurrent use.
type Service struct{}

// Repair checks the content for the same two risk conditions as the heuristic
// assessor (risk-phrase substring match on a lowercased copy, word count
// below 10) and applies the fixed substitutions when anything triggered.
//
// When no condition triggers, the original text is returned unchanged with
// the fixed no-repair explanation. Otherwise the explanation joins the
// triggered reasons with a single space.
func (s Service) Repair(content string) entity.RepairResult {
	lowered := strings.ToLower(content)

	var reasons []string

	riskPhrase := false
	for _, sub := range substitutions {
		if strings.Contains(lowered, sub.token) {
			riskPhrase = true
			break
		}
	}
	if riskPhrase {
		reasons = append(reasons, reasonOverconfident)
	}

	if text.CountWords(content) < minWordCount {
		reasons = append(reasons, reasonShortContent)
	}

	if len(reasons) == 0 {
		return entity.RepairResult{
			OriginalText:      content,
			RepairedText:      content,
			RepairExplanation: noRepairExplanation,
		}
	}

	repaired := content
	for _, sub := range substitutions {
		// 置換は小文字トークンが検出された場合のみ
		if strings.Contains(lowered, sub.token) {
			repaired = strings.ReplaceAll(repaired, sub.token, sub.replacement)
		}
	}

	return entity.RepairResult{
		OriginalText:      content,
		RepairedText:      repaired,
		RepairExplanation: strings.Join(reasons, " "),
	}
}
