package service

import (
	"context"

	"github.com/quillmont/satprep/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Randomness bounds: low for factual etymology lookups, higher for
// open-ended question generation.
const (
	questionTemperature  float32 = 0.9
	etymologyTemperature float32 = 0.3
)

// GenerationService drives the prompt → completion → parse pipeline.
type GenerationService interface {
	// GenerateFromPrompt issues one completion request and parses the result.
	GenerateFromPrompt(ctx context.Context, prompt string) ([]model.Question, error)
	// GenerateQuestions fans out count independent requests and joins them
	// all. There is no partial success: one failed request rejects the batch.
	GenerateQuestions(ctx context.Context, category, difficulty string, count int) ([]model.Question, error)
}

type generationService struct {
	completion CompletionService
}

func NewGenerationService(completion CompletionService) GenerationService {
	return &generationService{completion: completion}
}

func (s *generationService) GenerateFromPrompt(ctx context.Context, prompt string) ([]model.Question, error) {
	raw, err := s.completion.GenerateText(ctx, prompt, questionTemperature)
	if err != nil {
		return nil, err
	}
	questions, err := ParseQuestionBatch(raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Completion payload did not yield valid questions")
		return nil, err
	}
	return questions, nil
}

func (s *generationService) GenerateQuestions(ctx context.Context, category, difficulty string, count int) ([]model.Question, error) {
	prompt := BuildQuestionPrompt(category, difficulty)

	g, gctx := errgroup.WithContext(ctx)
	results := make([][]model.Question, count)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			batch, err := s.GenerateFromPrompt(gctx, prompt)
			if err != nil {
				return err
			}
			results[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lo.Flatten(results), nil
}
