package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/quillmont/satprep/internal/model"
	"github.com/rs/zerolog/log"
)

// The model's output shape is not guaranteed; this file is the one place
// where that untrusted text is converted into typed records or an explicit
// failure.

var (
	// ErrMalformedResponse means the payload was not parseable at all; the
	// whole batch is rejected.
	ErrMalformedResponse = errors.New("failed to generate valid questions")
	// ErrNoValidQuestions means the payload parsed but no element survived
	// schema validation.
	ErrNoValidQuestions = errors.New("no valid questions generated")
)

const requiredOptionCount = 4

// StripCodeFences removes enclosing markdown code-fence markers, with or
// without a language tag. A fenced payload must parse to the same result as
// its unfenced equivalent.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseQuestionBatch turns one raw completion payload into validated
// questions. Individual elements failing the schema check are logged and
// dropped; an unparseable payload or an empty surviving set rejects the
// whole batch with a distinct error.
func ParseQuestionBatch(raw string) ([]model.Question, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, ErrNoValidQuestions
	}

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// A top-level {"questions": ...} wrapper is unwrapped before
	// normalization; any other single object is treated as one candidate.
	if obj, ok := parsed.(map[string]any); ok {
		if inner, exists := obj["questions"]; exists {
			parsed = inner
		}
	}

	questions := make([]model.Question, 0)
	for _, candidate := range flattenCandidates(parsed) {
		q, ok := validateCandidate(candidate)
		if !ok {
			log.Warn().Interface("candidate", candidate).Msg("Dropping generated question that does not satisfy the schema")
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, ErrNoValidQuestions
	}
	return questions, nil
}

// flattenCandidates normalizes the parsed value into a flat list of
// candidates: nested lists are flattened, string elements are parsed
// recursively, and a bare object becomes a one-element list.
func flattenCandidates(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(t))
		for _, element := range t {
			out = append(out, flattenCandidates(element)...)
		}
		return out
	case string:
		var inner any
		if err := json.Unmarshal([]byte(t), &inner); err != nil {
			log.Warn().Err(err).Msg("Dropping string-encoded question that is not valid JSON")
			return nil
		}
		return flattenCandidates(inner)
	default:
		return []any{v}
	}
}

// validateCandidate enforces the minimum schema: a non-empty question
// prompt, exactly 4 string options, and present correctAnswer and
// explanation fields.
func validateCandidate(candidate any) (model.Question, bool) {
	obj, ok := candidate.(map[string]any)
	if !ok {
		return model.Question{}, false
	}

	prompt, _ := obj["question"].(string)
	if strings.TrimSpace(prompt) == "" {
		return model.Question{}, false
	}

	rawOptions, ok := obj["options"].([]any)
	if !ok || len(rawOptions) != requiredOptionCount {
		return model.Question{}, false
	}
	options := make([]string, 0, requiredOptionCount)
	for _, rawOption := range rawOptions {
		option, ok := rawOption.(string)
		if !ok {
			return model.Question{}, false
		}
		options = append(options, option)
	}

	correct, hasCorrect := obj["correctAnswer"]
	explanation, hasExplanation := obj["explanation"]
	if !hasCorrect || !hasExplanation {
		return model.Question{}, false
	}

	return model.Question{
		Question:      prompt,
		Options:       options,
		CorrectAnswer: stringField(correct),
		Explanation:   stringField(explanation),
	}, true
}

func stringField(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
