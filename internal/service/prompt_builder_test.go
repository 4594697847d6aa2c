package service

import (
	"strings"
	"testing"

	"github.com/quillmont/satprep/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildQuestionPrompt_categories(t *testing.T) {
	reading := BuildQuestionPrompt(model.CategoryReading, "medium")
	writing := BuildQuestionPrompt(model.CategoryWriting, "medium")
	math := BuildQuestionPrompt(model.CategoryMath, "medium")

	assert.Contains(t, reading, "DSAT-style Reading question")
	assert.Contains(t, writing, "DSAT-style Writing and Language question")
	assert.Contains(t, math, "DSAT-style Math question")
}

func TestBuildQuestionPrompt_difficultyInterpolated(t *testing.T) {
	prompt := BuildQuestionPrompt(model.CategoryMath, "hard")
	assert.Contains(t, prompt, "at hard difficulty level")
	assert.False(t, strings.Contains(prompt, "%s"))
}

func TestBuildQuestionPrompt_unknownFallsBackToReading(t *testing.T) {
	fallback := BuildQuestionPrompt("astrology", "easy")
	assert.Equal(t, BuildQuestionPrompt(model.CategoryReading, "easy"), fallback)
}

func TestBuildQuestionPrompt_declaresOutputSchema(t *testing.T) {
	for _, category := range []string{model.CategoryReading, model.CategoryWriting, model.CategoryMath} {
		prompt := BuildQuestionPrompt(category, "medium")
		assert.Contains(t, prompt, `"options"`)
		assert.Contains(t, prompt, `"correctAnswer"`)
		assert.Contains(t, prompt, "no additional text")
	}
}
