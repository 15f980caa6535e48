package delegate

import (
	"fmt"
	"strings"
)

// Template declares one delegated endpoint: a fixed instruction for the
// model plus the output schema the response must conform to. The four
// delegated endpoints differ only in these two fields; the orchestration
// path is shared.
type Template struct {
	// Name identifies the template in logs and metrics.
	Name string

	// Instruction is the analytical task description embedded in the prompt.
	Instruction string

	// Schema is the expected response shape in the OpenAPI subset accepted
	// by the Gemini API. Providers without native schema support embed it in
	// the prompt instead.
	Schema map[string]any
}

func stringField(description string) map[string]any {
	return map[string]any{"type": "STRING", "description": description}
}

func intField(description string) map[string]any {
	return map[string]any{"type": "INTEGER", "description": description}
}

func stringArrayField(description string) map[string]any {
	return map[string]any{
		"type":        "ARRAY",
		"description": description,
		"items":       map[string]any{"type": "STRING"},
	}
}

func objectSchema(required []string, properties map[string]any) map[string]any {
	return map[string]any{
		"type":       "OBJECT",
		"properties": properties,
		"required":   required,
	}
}

// VerifyTemplate mirrors the heuristic assessor's result shape so both
// strategies serve the same response contract on POST /verify.
var VerifyTemplate = Template{
	Name: "verify",
	Instruction: "Assess the credibility of the text. Assign a credibility score " +
		"from 0 to 100, list short machine-readable flags for every detected risk " +
		"pattern (e.g. overconfident language, missing sources, emotional framing), " +
		"give one explanation sentence per flag, state a final verdict, and when the " +
		"score is below 70 add a concrete verification suggestion.",
	Schema: objectSchema(
		[]string{"credibility_score", "flags_detected", "explanation", "final_verdict"},
		map[string]any{
			"credibility_score":       intField("Credibility score from 0 to 100."),
			"flags_detected":          stringArrayField("Short labels for each detected risk pattern."),
			"explanation":             stringArrayField("One human-readable sentence per flag or adjustment."),
			"final_verdict":           stringField("Overall judgment of the text's reliability."),
			"verification_suggestion": stringField("Concrete advice on how to verify the claims. Omit when the score is 70 or higher."),
		},
	),
}

// BiasTemplate backs POST /analyze-bias.
var BiasTemplate = Template{
	Name: "analyze-bias",
	Instruction: "Analyze the text for bias. Assign a bias score from 0 (neutral) " +
		"to 100 (heavily biased), list short flags naming each bias technique found " +
		"(loaded wording, one-sided framing, appeal to emotion, cherry-picking), name " +
		"the dominant bias direction if one exists, and explain each finding in one sentence.",
	Schema: objectSchema(
		[]string{"bias_score", "bias_flags", "explanation"},
		map[string]any{
			"bias_score":    intField("Bias score from 0 (neutral) to 100 (heavily biased)."),
			"bias_flags":    stringArrayField("Short labels for each bias technique detected."),
			"dominant_bias": stringField("The dominant bias direction, or 'none'."),
			"explanation":   stringArrayField("One sentence per detected technique."),
		},
	),
}

// XAITemplate backs POST /xai-info with a confidence breakdown of the
// assessment itself.
var XAITemplate = Template{
	Name: "xai-info",
	Instruction: "Explain how confident an automated credibility assessment of this " +
		"text can be. Give an overall confidence from 0 to 100 and break it down per " +
		"aspect (factual claims, sourcing, language signals, topical volatility), with " +
		"a confidence value and a one-sentence rationale per aspect.",
	Schema: objectSchema(
		[]string{"overall_confidence", "confidence_breakdown"},
		map[string]any{
			"overall_confidence": intField("Overall assessment confidence from 0 to 100."),
			"confidence_breakdown": map[string]any{
				"type":        "ARRAY",
				"description": "Per-aspect confidence entries.",
				"items": objectSchema(
					[]string{"aspect", "confidence", "rationale"},
					map[string]any{
						"aspect":     stringField("The aspect being scored."),
						"confidence": intField("Confidence for this aspect from 0 to 100."),
						"rationale":  stringField("One sentence explaining the value."),
					},
				),
			},
		},
	),
}

// KnowledgeGapsTemplate backs POST /knowledge-gaps.
var KnowledgeGapsTemplate = Template{
	Name: "knowledge-gaps",
	Instruction: "Map what this text leaves out. Assign a completeness score from 0 " +
		"to 100, list the specific knowledge gaps a reader should be aware of, list " +
		"missing perspectives or stakeholders, and explain the most important gaps in " +
		"one sentence each.",
	Schema: objectSchema(
		[]string{"completeness_score", "knowledge_gaps"},
		map[string]any{
			"completeness_score":   intField("Completeness score from 0 to 100."),
			"knowledge_gaps":       stringArrayField("Specific pieces of missing information."),
			"missing_perspectives": stringArrayField("Perspectives or stakeholders the text ignores."),
			"explanation":          stringArrayField("One sentence per significant gap."),
		},
	),
}

// BuildPrompt assembles the English-only prompt variant.
func (t Template) BuildPrompt(content, sourceURL string) string {
	var b strings.Builder
	b.WriteString(t.Instruction)
	b.WriteString("\nRespond with a single JSON object matching the expected schema and nothing else.\n")
	if sourceURL != "" {
		fmt.Fprintf(&b, "\nThe text was published at: %s\n", sourceURL)
	}
	b.WriteString("\nTEXT:\n")
	b.WriteString(content)
	return b.String()
}

// BuildBilingualPrompt assembles the variant used for non-English input. It
// embeds both the original text and its English translation and instructs the
// model to quote evidence from the original.
//
// Quote attribution relies entirely on the model following the instruction;
// nothing verifies locally that returned quotes actually appear in the source
// text. Known reliability gap.
func (t Template) BuildBilingualPrompt(original, translated, language, sourceURL string) string {
	var b strings.Builder
	b.WriteString(t.Instruction)
	b.WriteString("\nRespond with a single JSON object matching the expected schema and nothing else.\n")
	fmt.Fprintf(&b, "\nThe text is written in %s. An English translation is provided for analysis, "+
		"but when you quote phrases as evidence, quote them exactly as they appear in the "+
		"original %s text.\n", language, language)
	if sourceURL != "" {
		fmt.Fprintf(&b, "\nThe text was published at: %s\n", sourceURL)
	}
	fmt.Fprintf(&b, "\nORIGINAL TEXT (%s):\n%s\n", language, original)
	b.WriteString("\nENGLISH TRANSLATION:\n")
	b.WriteString(translated)
	return b.String()
}
