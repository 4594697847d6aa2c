package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/model"
	"github.com/quillmont/satprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	defaultTestLength = 5
	testDifficulty    = "medium"
)

// TestService owns the durable test lifecycle:
// generating → ready → in-progress → completed.
type TestService interface {
	GenerateTest(ctx context.Context, req dto.CreateTestDTO) (*dto.TestResponseDTO, error)
	GetTest(id uint) (*dto.TestResponseDTO, error)
	ListTests(userID string) ([]dto.TestSummaryDTO, error)
	CompleteTest(id uint, req dto.CompleteTestDTO) error
}

type testService struct {
	testRepo  repository.TestRepository
	generator GenerationService
}

func NewTestService(testRepo repository.TestRepository, generator GenerationService) TestService {
	return &testService{testRepo: testRepo, generator: generator}
}

// GenerateTest creates the record first so the user sees a "generating"
// test immediately, then runs the question batch and flips it to "ready".
// A failed batch leaves the record in "generating"; the error is surfaced
// to the caller and nothing is retried.
func (s *testService) GenerateTest(ctx context.Context, req dto.CreateTestDTO) (*dto.TestResponseDTO, error) {
	count := req.NumberOfQuestions
	if count <= 0 {
		count = defaultTestLength
	}

	emptyQuestions, err := model.EncodeQuestions([]model.Question{})
	if err != nil {
		return nil, err
	}
	test := model.Test{
		UserID:        req.UserID,
		Title:         req.Title,
		QuestionType:  req.QuestionType,
		QuestionCount: count,
		Status:        model.TestStatusGenerating,
		Questions:     emptyQuestions,
	}
	if err := s.testRepo.Create(&test); err != nil {
		return nil, fmt.Errorf("failed to create test record: %w", err)
	}

	questions, err := s.generator.GenerateQuestions(ctx, req.QuestionType, testDifficulty, count)
	if err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("Question batch failed, test left in generating state")
		return nil, err
	}

	encoded, err := model.EncodeQuestions(questions)
	if err != nil {
		return nil, err
	}
	test.Questions = encoded
	test.Status = model.TestStatusReady
	if err := s.testRepo.Update(&test); err != nil {
		return nil, fmt.Errorf("failed to populate test %d: %w", test.ID, err)
	}

	log.Info().Uint("testID", test.ID).Int("questions", len(questions)).Msg("Test generated")
	return s.testResponse(&test)
}

func (s *testService) GetTest(id uint) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("test not found with ID %d: %w", id, err)
	}
	return s.testResponse(test)
}

func (s *testService) ListTests(userID string) ([]dto.TestSummaryDTO, error) {
	tests, err := s.testRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests for user %s: %w", userID, err)
	}

	summaries := make([]dto.TestSummaryDTO, 0, len(tests))
	for _, test := range tests {
		var summary dto.TestSummaryDTO
		if err := copier.Copy(&summary, &test); err != nil {
			log.Error().Err(err).Uint("testID", test.ID).Msg("Error copying test to summary DTO")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *testService) CompleteTest(id uint, req dto.CompleteTestDTO) error {
	if _, err := s.testRepo.FindByID(id); err != nil {
		return fmt.Errorf("test not found with ID %d: %w", id, err)
	}
	if err := s.testRepo.Complete(id, req.CurrentQuestion, req.CorrectAnswers); err != nil {
		return fmt.Errorf("failed to mark test %d completed: %w", id, err)
	}
	return nil
}

func (s *testService) testResponse(test *model.Test) (*dto.TestResponseDTO, error) {
	questions, err := model.DecodeStoredQuestions(test.Questions)
	if err != nil {
		return nil, fmt.Errorf("test %d has unreadable questions: %w", test.ID, err)
	}

	return &dto.TestResponseDTO{
		ID:            test.ID,
		UserID:        test.UserID,
		Title:         test.Title,
		QuestionType:  test.QuestionType,
		QuestionCount: test.QuestionCount,
		Status:        test.Status,
		Questions:     questions,
		Progress: dto.TestProgressDTO{
			CurrentQuestion: test.CurrentQuestion,
			CorrectAnswers:  test.CorrectAnswers,
			Completed:       test.Completed,
		},
		CreatedAt: test.CreatedAt,
	}, nil
}
