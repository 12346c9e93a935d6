package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const recommendationsSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["title", "composer", "focus"],
		"properties": {
			"title": {"type": "string"},
			"composer": {"type": "string"},
			"focus": {"type": "string"}
		}
	}
}`

var recommendationsSchema = jsonschema.MustCompileString("recommendations.schema.json", recommendationsSchemaJSON)

// ParseRecommendations extracts the JSON array of recommended pieces from a
// raw model response. Surrounding code-fence markup is tolerated and stripped;
// anything that then fails to parse or validate against the expected shape is
// an error, and the caller must leave stored data untouched.
func ParseRecommendations(raw string) ([]Recommendation, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty recommendations response")
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse recommendations json: %w", err)
	}
	if err := recommendationsSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("validate recommendations: %w", err)
	}

	var recs []Recommendation
	if err := json.Unmarshal([]byte(cleaned), &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return recs, nil
}

// StripCodeFence removes a surrounding markdown code fence, language tag
// included, returning the inner text trimmed. Text without a fence passes
// through trimmed.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		// A one-line fenced block has no content.
		return ""
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
