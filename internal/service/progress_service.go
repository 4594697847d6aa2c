package service

import (
	"fmt"

	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/model"
	"github.com/quillmont/satprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	progressIncrementPerCorrect = 2
	progressCeiling             = 100
)

// ProgressService maintains the per-user, per-section aggregate counters.
type ProgressService interface {
	// RecordAnswer updates the counters for one scored answer and returns
	// the new progress percentage.
	RecordAnswer(userID, section string, correct bool) (int, error)
	GetProgress(userID string) (*dto.UserProgressResponseDTO, error)
}

type progressService struct {
	progressRepo repository.UserProgressRepository
}

func NewProgressService(progressRepo repository.UserProgressRepository) ProgressService {
	return &progressService{progressRepo: progressRepo}
}

// nextProgress applies the increment-on-correct rule. Monotonically
// non-decreasing, capped at the ceiling.
func nextProgress(current int, correct bool) int {
	if !correct {
		return current
	}
	next := current + progressIncrementPerCorrect
	if next > progressCeiling {
		return progressCeiling
	}
	return next
}

func (s *progressService) RecordAnswer(userID, section string, correct bool) (int, error) {
	progress, err := s.progressRepo.FindOrCreate(userID, section)
	if err != nil {
		return 0, fmt.Errorf("failed to load progress for user %s: %w", userID, err)
	}

	progress.TotalQuestions++
	if correct {
		progress.CorrectAnswers++
	}
	progress.Progress = nextProgress(progress.Progress, correct)

	if err := s.progressRepo.Save(progress); err != nil {
		return 0, fmt.Errorf("failed to save progress for user %s: %w", userID, err)
	}

	log.Debug().Str("userID", userID).Str("section", section).Int("progress", progress.Progress).Msg("Recorded scored answer")
	return progress.Progress, nil
}

func (s *progressService) GetProgress(userID string) (*dto.UserProgressResponseDTO, error) {
	rows, err := s.progressRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for user %s: %w", userID, err)
	}

	resp := &dto.UserProgressResponseDTO{UserID: userID, Sections: make([]dto.SectionProgressDTO, 0, len(rows))}
	for _, row := range rows {
		resp.Sections = append(resp.Sections, sectionProgressDTO(row))
	}
	return resp, nil
}

func sectionProgressDTO(row model.UserProgress) dto.SectionProgressDTO {
	return dto.SectionProgressDTO{
		Section:        row.Section,
		Progress:       row.Progress,
		TotalQuestions: row.TotalQuestions,
		CorrectAnswers: row.CorrectAnswers,
	}
}
