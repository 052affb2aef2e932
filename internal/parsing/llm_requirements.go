package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/degree-tracker/internal/llm"
	"github.com/jonathan/degree-tracker/internal/prompts"
	"github.com/jonathan/degree-tracker/internal/types"
)

// llmRequirements is the JSON document the model is asked to return.
type llmRequirements struct {
	ProgramName  string `json:"program_name"`
	Requirements []struct {
		Category    string   `json:"category"`
		Description string   `json:"description"`
		Credits     float64  `json:"credits"`
		Courses     []string `json:"courses"`
	} `json:"requirements"`
}

// ExtractRequirementsLLM asks the configured model to extract requirements
// from page text. It is the fallback for pages where the pattern extractor
// only finds the placeholder.
func ExtractRequirementsLLM(ctx context.Context, text, source, apiKey string) ([]types.Requirement, error) {
	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return nil, &LLMError{Stage: StageRequest, Source: source, Err: err}
	}
	defer func() { _ = client.Close() }()

	return ExtractRequirementsWithClient(ctx, client, text, source)
}

// ExtractRequirementsWithClient runs LLM requirement extraction with an existing client.
func ExtractRequirementsWithClient(ctx context.Context, client llm.Client, text, source string) ([]types.Requirement, error) {
	prompt, err := buildRequirementsPrompt(text, source)
	if err != nil {
		return nil, &LLMError{Stage: StageRequest, Source: source, Err: err}
	}

	responseText, err := client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, &LLMError{Stage: StageRequest, Source: source, Err: err}
	}

	doc, err := parseRequirementsResponse(responseText, source)
	if err != nil {
		return nil, err
	}

	return postProcessRequirements(doc, source)
}

func buildRequirementsPrompt(text, source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		source = "pasted text"
	}
	return prompts.Render(prompts.ExtractRequirements, map[string]string{"Source": source, "Text": text})
}

func parseRequirementsResponse(jsonText, source string) (*llmRequirements, error) {
	var doc llmRequirements
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return nil, &LLMError{Stage: StageDecode, Source: source, Err: err}
	}
	return &doc, nil
}

// postProcessRequirements canonicalizes course codes and rejects entries the
// model could not have read from a page. An empty result becomes the placeholder.
func postProcessRequirements(doc *llmRequirements, source string) ([]types.Requirement, error) {
	reqs := make([]types.Requirement, 0, len(doc.Requirements))
	for i, r := range doc.Requirements {
		if r.Credits < 0 {
			return nil, &LLMError{
				Stage:  StageValidate,
				Source: source,
				Field:  fmt.Sprintf("requirements[%d].credits", i),
				Err:    fmt.Errorf("credits must not be negative, got %g", r.Credits),
			}
		}

		description := strings.TrimSpace(r.Description)
		courses := make([]string, 0, len(r.Courses))
		seen := make(map[string]bool)
		for _, c := range r.Courses {
			code, ok := NormalizeCode(c)
			if ok && !seen[code] {
				seen[code] = true
				courses = append(courses, code)
			}
		}
		if description == "" && len(courses) == 0 {
			continue
		}

		category := strings.TrimSpace(r.Category)
		if category == "" {
			category = types.GeneralRequirementCategory
		}
		name := description
		if name == "" {
			name = strings.Join(courses, ", ")
		}

		reqs = append(reqs, types.Requirement{
			Name:            name,
			Description:     description,
			Category:        category,
			Credits:         r.Credits,
			MatchingCourses: courses,
			Source:          source,
		})
	}

	if len(reqs) == 0 {
		return []types.Requirement{types.NewPlaceholderRequirement(source)}, nil
	}
	return reqs, nil
}
