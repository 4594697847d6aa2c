package service

import (
	"sync"
	"testing"

	"github.com/quillmont/satprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memProgressRepo keeps progress rows in a map keyed by user+section.
type memProgressRepo struct {
	mu   sync.Mutex
	rows map[string]*model.UserProgress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{rows: make(map[string]*model.UserProgress)}
}

func (r *memProgressRepo) FindOrCreate(userID, section string) (*model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + "/" + section
	if row, ok := r.rows[key]; ok {
		clone := *row
		return &clone, nil
	}
	row := &model.UserProgress{UserID: userID, Section: section}
	r.rows[key] = row
	clone := *row
	return &clone, nil
}

func (r *memProgressRepo) Save(progress *model.UserProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *progress
	r.rows[progress.UserID+"/"+progress.Section] = &clone
	return nil
}

func (r *memProgressRepo) FindAllByUser(userID string) ([]model.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []model.UserProgress
	for _, row := range r.rows {
		if row.UserID == userID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func TestNextProgress(t *testing.T) {
	assert.Equal(t, 2, nextProgress(0, true))
	assert.Equal(t, 52, nextProgress(50, true))
	assert.Equal(t, 100, nextProgress(98, true))
	assert.Equal(t, 100, nextProgress(99, true))
	assert.Equal(t, 100, nextProgress(100, true))
	assert.Equal(t, 50, nextProgress(50, false))
	assert.Equal(t, 0, nextProgress(0, false))
}

func TestRecordAnswer_correct(t *testing.T) {
	repo := newMemProgressRepo()
	svc := NewProgressService(repo)

	progress, err := svc.RecordAnswer("user-1", model.CategoryMath, true)
	require.NoError(t, err)
	assert.Equal(t, 2, progress)

	row, err := repo.FindOrCreate("user-1", model.CategoryMath)
	require.NoError(t, err)
	assert.Equal(t, 1, row.TotalQuestions)
	assert.Equal(t, 1, row.CorrectAnswers)
	assert.Equal(t, 2, row.Progress)
}

func TestRecordAnswer_incorrectCountsAttemptOnly(t *testing.T) {
	repo := newMemProgressRepo()
	svc := NewProgressService(repo)

	progress, err := svc.RecordAnswer("user-1", model.CategoryReading, false)
	require.NoError(t, err)
	assert.Equal(t, 0, progress)

	row, err := repo.FindOrCreate("user-1", model.CategoryReading)
	require.NoError(t, err)
	assert.Equal(t, 1, row.TotalQuestions)
	assert.Equal(t, 0, row.CorrectAnswers)
	assert.Equal(t, 0, row.Progress)
}

func TestRecordAnswer_capsAtCeiling(t *testing.T) {
	repo := newMemProgressRepo()
	svc := NewProgressService(repo)

	var progress int
	var err error
	for i := 0; i < 60; i++ {
		progress, err = svc.RecordAnswer("user-1", model.CategoryWriting, true)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, progress)

	row, err := repo.FindOrCreate("user-1", model.CategoryWriting)
	require.NoError(t, err)
	assert.Equal(t, 60, row.TotalQuestions)
	assert.Equal(t, 100, row.Progress)
}

func TestRecordAnswer_sectionsAreIndependent(t *testing.T) {
	repo := newMemProgressRepo()
	svc := NewProgressService(repo)

	_, err := svc.RecordAnswer("user-1", model.CategoryMath, true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer("user-1", model.CategoryReading, true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer("user-1", model.CategoryMath, true)
	require.NoError(t, err)

	math, err := repo.FindOrCreate("user-1", model.CategoryMath)
	require.NoError(t, err)
	reading, err := repo.FindOrCreate("user-1", model.CategoryReading)
	require.NoError(t, err)
	assert.Equal(t, 4, math.Progress)
	assert.Equal(t, 2, reading.Progress)
}

func TestGetProgress(t *testing.T) {
	repo := newMemProgressRepo()
	svc := NewProgressService(repo)

	_, err := svc.RecordAnswer("user-1", model.CategoryMath, true)
	require.NoError(t, err)
	_, err = svc.RecordAnswer("user-2", model.CategoryMath, true)
	require.NoError(t, err)

	resp, err := svc.GetProgress("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.UserID)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, model.CategoryMath, resp.Sections[0].Section)
	assert.Equal(t, 2, resp.Sections[0].Progress)
}
