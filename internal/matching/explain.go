package matching

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/talent-match/internal/llm"
)

// explanationFallback is returned whenever the LLM cannot produce an
// explanation. Explanation is decoration on top of the numeric score; it
// must never fail the surrounding request.
const explanationFallback = "Unable to generate match explanation at this time."

const explanationPromptTemplate = `You are an expert career advisor. Analyze the following candidate profile and job description to explain why they are a %d%% match.

Candidate Profile:
%s

Job Description:
%s

Provide a concise explanation (2-3 sentences) highlighting:
1. Key matching skills and qualifications
2. Relevant experience alignment
3. Any notable gaps or areas for growth

Keep it professional and constructive.`

// Explainer produces natural-language rationales for match scores.
type Explainer struct {
	client llm.Client
}

// NewExplainer creates an Explainer backed by the given LLM client.
func NewExplainer(client llm.Client) *Explainer {
	return &Explainer{client: client}
}

// ExplainMatch generates a short rationale for why a candidate and a job
// received the given match score. On any LLM failure it degrades to a
// generic fallback message rather than returning an error.
func (e *Explainer) ExplainMatch(ctx context.Context, profileText, jobText string, matchScore int) string {
	prompt := fmt.Sprintf(explanationPromptTemplate, matchScore, profileText, jobText)

	explanation, err := e.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("[matching] explanation generation failed: %v", err)
		return explanationFallback
	}
	if explanation == "" {
		return explanationFallback
	}
	return explanation
}
