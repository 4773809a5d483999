// Package query turns free-text search input into structured filters
// using an LLM with schema-validated JSON output.
package query

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/talent-match/internal/llm"
	"github.com/jonathan/talent-match/internal/search"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var enhancedQuerySchema string

const enhancePromptTemplate = `You are a job search query analyzer. Extract structured search parameters from the user's natural language query.

User query: %q

Return a JSON object with these fields:
- original_query: the query exactly as given
- extracted_keywords: key terms useful for matching (array of strings)
- job_titles: job titles the user is likely looking for (array of strings)
- skills: technical or professional skills mentioned or implied (array of strings)
- locations: locations mentioned (array of strings, empty if none)
- experience_level: one of ENTRY, INTERMEDIATE, SENIOR, EXECUTIVE, or null if not indicated
- job_type: one of FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP, or null if not indicated
- salary_range: object with integer min and max, or null if no salary is mentioned

Only extract what the query actually says or strongly implies. Do not invent details.`

// SalaryRange is an extracted salary expectation in whole currency units.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// EnhancedQuery is the structured interpretation of a free-text search.
type EnhancedQuery struct {
	OriginalQuery     string       `json:"original_query"`
	ExtractedKeywords []string     `json:"extracted_keywords"`
	JobTitles         []string     `json:"job_titles"`
	Skills            []string     `json:"skills"`
	Locations         []string     `json:"locations"`
	ExperienceLevel   *string      `json:"experience_level,omitempty"`
	JobType           *string      `json:"job_type,omitempty"`
	SalaryRange       *SalaryRange `json:"salary_range,omitempty"`
}

// EmptyQueryError indicates the caller submitted a blank query.
type EmptyQueryError struct{}

func (e *EmptyQueryError) Error() string {
	return "query must not be empty"
}

// Processor extracts structured search parameters from natural-language
// queries.
type Processor struct {
	client llm.Client
}

// NewProcessor creates a Processor backed by the given LLM client.
func NewProcessor(client llm.Client) *Processor {
	return &Processor{client: client}
}

// Enhance interprets a free-text search query into structured filters.
// The LLM output is validated against the EnhancedQuery JSON schema
// before being trusted; anything malformed is an error, not a guess.
func (p *Processor) Enhance(ctx context.Context, userQuery string) (*EnhancedQuery, error) {
	if strings.TrimSpace(userQuery) == "" {
		return nil, &EmptyQueryError{}
	}

	prompt := fmt.Sprintf(enhancePromptTemplate, userQuery)

	raw, err := p.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("failed to enhance query: %w", err)
	}

	if err := validateEnhancedQuery(raw); err != nil {
		return nil, err
	}

	var enhanced EnhancedQuery
	if err := json.Unmarshal([]byte(raw), &enhanced); err != nil {
		return nil, fmt.Errorf("failed to parse enhanced query: %w", err)
	}

	// The model occasionally rewrites the query it was given back.
	enhanced.OriginalQuery = userQuery

	return &enhanced, nil
}

// validateEnhancedQuery checks raw LLM output against the embedded JSON
// schema.
func validateEnhancedQuery(raw string) error {
	schemaLoader := gojsonschema.NewStringLoader(enhancedQuerySchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate enhanced query: %w", err)
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("enhanced query failed schema validation: %s", strings.Join(issues, "; "))
	}

	return nil
}

// ToFilters maps an enhanced query onto search filters. The original
// query text keeps driving the semantic ranking; the extracted fields
// become relational filters.
func (q *EnhancedQuery) ToFilters() search.JobFilters {
	filters := search.JobFilters{
		Query:  q.OriginalQuery,
		Skills: q.Skills,
	}
	if len(q.Locations) > 0 {
		filters.Location = q.Locations[0]
	}
	if q.JobType != nil {
		filters.JobType = []string{*q.JobType}
	}
	if q.ExperienceLevel != nil {
		filters.ExperienceLevel = []string{*q.ExperienceLevel}
	}
	if q.SalaryRange != nil {
		min, max := q.SalaryRange.Min, q.SalaryRange.Max
		filters.SalaryMin = &min
		filters.SalaryMax = &max
	}
	return filters
}
