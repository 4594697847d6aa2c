package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator hands out numbered questions with "A" always correct.
type fakeGenerator struct {
	mu       sync.Mutex
	calls    []int
	failNext bool
	seq      int
}

func (g *fakeGenerator) GenerateFromPrompt(_ context.Context, _ string) ([]model.Question, error) {
	return g.GenerateQuestions(context.Background(), model.CategoryReading, "medium", 1)
}

func (g *fakeGenerator) GenerateQuestions(_ context.Context, _, _ string, count int) ([]model.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, count)
	if g.failNext {
		g.failNext = false
		return nil, errors.New("generation failed")
	}
	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		g.seq++
		questions = append(questions, model.Question{
			Question:      fmt.Sprintf("Question %d", g.seq),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Explanation:   "Because A.",
		})
	}
	return questions, nil
}

type fakeTestRepo struct {
	mu            sync.Mutex
	tests         map[uint]*model.Test
	statusUpdates []string
	completeCalls []struct{ current, correct int }
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: make(map[uint]*model.Test)}
}

func (r *fakeTestRepo) Create(test *model.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	test.ID = uint(len(r.tests) + 1)
	r.tests[test.ID] = test
	return nil
}

func (r *fakeTestRepo) Update(test *model.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tests[test.ID] = test
	return nil
}

func (r *fakeTestRepo) FindByID(id uint) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	test, ok := r.tests[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return test, nil
}

func (r *fakeTestRepo) FindAllByUser(userID string) ([]model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tests []model.Test
	for _, test := range r.tests {
		if test.UserID == userID {
			tests = append(tests, *test)
		}
	}
	return tests, nil
}

func (r *fakeTestRepo) UpdateStatus(id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusUpdates = append(r.statusUpdates, status)
	if test, ok := r.tests[id]; ok {
		test.Status = status
	}
	return nil
}

func (r *fakeTestRepo) Complete(id uint, currentQuestion, correctAnswers int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completeCalls = append(r.completeCalls, struct{ current, correct int }{currentQuestion, correctAnswers})
	if test, ok := r.tests[id]; ok {
		test.Status = model.TestStatusCompleted
		test.Completed = true
		test.CorrectAnswers = correctAnswers
	}
	return nil
}

type fakeSessionRepo struct {
	mu      sync.Mutex
	created []model.PracticeSession
	err     error
}

func (r *fakeSessionRepo) Create(session *model.PracticeSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, *session)
	return nil
}

func (r *fakeSessionRepo) FindAllByUser(userID string) ([]model.PracticeSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []model.PracticeSession
	for _, session := range r.created {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

type fakeProgress struct {
	mu      sync.Mutex
	correct int
	wrong   int
}

func (p *fakeProgress) RecordAnswer(_, _ string, correct bool) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if correct {
		p.correct++
	} else {
		p.wrong++
	}
	return 0, nil
}

func (p *fakeProgress) GetProgress(_ string) (*dto.UserProgressResponseDTO, error) {
	return &dto.UserProgressResponseDTO{}, nil
}

func (p *fakeProgress) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.correct, p.wrong
}

type sessionFixture struct {
	svc         *sessionService
	generator   *fakeGenerator
	testRepo    *fakeTestRepo
	sessionRepo *fakeSessionRepo
	progress    *fakeProgress
	clock       time.Time
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		generator:   &fakeGenerator{},
		testRepo:    newFakeTestRepo(),
		sessionRepo: &fakeSessionRepo{},
		progress:    &fakeProgress{},
		clock:       time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewSessionService(f.generator, f.testRepo, f.sessionRepo, f.progress).(*sessionService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *sessionFixture) tick(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func TestStartSession_finite(t *testing.T) {
	f := newSessionFixture(t)

	snapshot, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", QuestionType: model.CategoryMath})
	require.NoError(t, err)

	assert.Equal(t, model.ModeFinite, snapshot.Mode)
	assert.Equal(t, 0, snapshot.QuestionIndex)
	assert.Equal(t, 5, snapshot.QueueLength)
	assert.Equal(t, questionSeconds, snapshot.TimeLeft)
	assert.Equal(t, []int{5}, f.generator.calls)

	require.NotNil(t, snapshot.Question)
	assert.NotEmpty(t, snapshot.Question.Options)
	// Answer and explanation stay hidden until the question is scored.
	assert.Empty(t, snapshot.Question.CorrectAnswer)
	assert.Empty(t, snapshot.Question.Explanation)
	assert.Nil(t, snapshot.Correct)
}

func TestStartSession_unknownMode(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", Mode: "marathon"})
	assert.Error(t, err)
}

func TestStartSession_generationFailure(t *testing.T) {
	f := newSessionFixture(t)
	f.generator.failNext = true
	_, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	assert.Error(t, err)
}

func TestSnapshot_unknownSession(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.svc.Snapshot("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitAnswer_scoring(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	require.NoError(t, err)

	snapshot, err := f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	require.NoError(t, err)

	assert.True(t, snapshot.Answered)
	require.NotNil(t, snapshot.Correct)
	assert.True(t, *snapshot.Correct)
	assert.Equal(t, 1, snapshot.TotalAnswered)
	assert.Equal(t, 1, snapshot.CorrectAnswers)
	assert.Equal(t, "A", snapshot.Question.CorrectAnswer)
	assert.Equal(t, "Because A.", snapshot.Question.Explanation)

	require.Eventually(t, func() bool {
		correct, _ := f.progress.counts()
		return correct == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitAnswer_incorrect(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	require.NoError(t, err)

	snapshot, err := f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "C"})
	require.NoError(t, err)

	require.NotNil(t, snapshot.Correct)
	assert.False(t, *snapshot.Correct)
	assert.Equal(t, 1, snapshot.TotalAnswered)
	assert.Equal(t, 0, snapshot.CorrectAnswers)

	require.Eventually(t, func() bool {
		_, wrong := f.progress.counts()
		return wrong == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitAnswer_guards(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{})
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "B"})
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	_, err = f.svc.SubmitAnswer("nope", dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuestionTimer(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	require.NoError(t, err)

	f.tick(30 * time.Second)
	snapshot, err := f.svc.Snapshot(start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, questionSeconds-30, snapshot.TimeLeft)

	// Scoring freezes the clock.
	snapshot, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	require.NoError(t, err)
	assert.Equal(t, questionSeconds-30, snapshot.TimeLeft)

	f.tick(50 * time.Second)
	snapshot, err = f.svc.Snapshot(start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, questionSeconds-30, snapshot.TimeLeft)

	// Advancing resets the countdown for the next question.
	snapshot, err = f.svc.Advance(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, questionSeconds, snapshot.TimeLeft)
}

func TestQuestionTimer_floorsAtZero(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	require.NoError(t, err)

	f.tick(10 * time.Minute)
	snapshot, err := f.svc.Snapshot(start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.TimeLeft)
}

func TestFiniteSession_runToCompletion(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", QuestionType: model.CategoryReading})
	require.NoError(t, err)

	answers := []string{"A", "B", "A", "A", "C"} // 3 correct
	var snapshot *dto.SessionSnapshotDTO
	for _, answer := range answers {
		f.tick(10 * time.Second)
		_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: answer})
		require.NoError(t, err)
		snapshot, err = f.svc.Advance(context.Background(), start.SessionID)
		require.NoError(t, err)
	}

	assert.True(t, snapshot.Completed)
	require.NotNil(t, snapshot.Summary)
	assert.Equal(t, 3, snapshot.Summary.CorrectAnswers)
	assert.Equal(t, 5, snapshot.Summary.TotalQuestions)
	assert.Equal(t, 60, snapshot.Summary.ScorePercent)
	assert.Equal(t, 50, snapshot.Summary.DurationSeconds)
	assert.Equal(t, 10, snapshot.Summary.AverageSeconds)

	// Persisted exactly once, and the session stays closed.
	require.Len(t, f.sessionRepo.created, 1)
	record := f.sessionRepo.created[0]
	assert.Equal(t, "user-1", record.UserID)
	assert.Equal(t, 3, record.CorrectAnswers)
	assert.Equal(t, 5, record.TotalQuestions)

	_, err = f.svc.Advance(context.Background(), start.SessionID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	assert.ErrorIs(t, err, ErrSessionCompleted)

	again, err := f.svc.Snapshot(start.SessionID)
	require.NoError(t, err)
	assert.True(t, again.Completed)
	require.Len(t, f.sessionRepo.created, 1)
}

func TestFiniteSession_persistFailureBecomesNotice(t *testing.T) {
	f := newSessionFixture(t)
	f.sessionRepo.err = errors.New("db down")

	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	require.NoError(t, err)

	var snapshot *dto.SessionSnapshotDTO
	for i := 0; i < 5; i++ {
		_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
		require.NoError(t, err)
		snapshot, err = f.svc.Advance(context.Background(), start.SessionID)
		require.NoError(t, err)
	}

	assert.True(t, snapshot.Completed)
	assert.Contains(t, snapshot.Notices, "Failed to save progress")

	// Notices are delivered once.
	again, err := f.svc.Snapshot(start.SessionID)
	require.NoError(t, err)
	assert.Empty(t, again.Notices)
}

func TestInfiniteSession_prefetch(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", Mode: model.ModeInfinite})
	require.NoError(t, err)
	assert.Equal(t, infiniteSeedCount, start.QueueLength)

	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	require.NoError(t, err)
	snapshot, err := f.svc.Advance(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.QuestionIndex)

	// Fewer than 2 questions remain ahead, so a background refill starts.
	require.Eventually(t, func() bool {
		s, err := f.svc.Snapshot(start.SessionID)
		return err == nil && s.QueueLength == infiniteSeedCount+prefetchBatchSize
	}, time.Second, 5*time.Millisecond)
}

func TestInfiniteSession_prefetchFailureBecomesNotice(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", Mode: model.ModeInfinite})
	require.NoError(t, err)

	f.generator.failNext = true
	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	require.NoError(t, err)
	_, err = f.svc.Advance(context.Background(), start.SessionID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s, err := f.svc.Snapshot(start.SessionID)
		return err == nil && len(s.Notices) > 0
	}, time.Second, 5*time.Millisecond)
}

func TestInfiniteSession_advancePastQueueIsPending(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", Mode: model.ModeInfinite})
	require.NoError(t, err)

	// Block the generator forever so the refill never lands.
	f.svc.mu.Lock()
	f.svc.sessions[start.SessionID].prefetching = true
	f.svc.mu.Unlock()

	_, err = f.svc.Advance(context.Background(), start.SessionID)
	require.NoError(t, err)
	_, err = f.svc.Advance(context.Background(), start.SessionID)
	assert.ErrorIs(t, err, ErrQuestionPending)
}

func TestToggleExclusion(t *testing.T) {
	f := newSessionFixture(t)
	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1"})
	require.NoError(t, err)

	snapshot, err := f.svc.ToggleExclusion(start.SessionID, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, snapshot.ExcludedOptions)

	snapshot, err = f.svc.ToggleExclusion(start.SessionID, "B")
	require.NoError(t, err)
	assert.Empty(t, snapshot.ExcludedOptions)

	// Exclusions do not survive a question change.
	_, err = f.svc.ToggleExclusion(start.SessionID, "C")
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	require.NoError(t, err)
	snapshot, err = f.svc.Advance(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Empty(t, snapshot.ExcludedOptions)
}

func TestStartSession_fromTest(t *testing.T) {
	f := newSessionFixture(t)

	questions := []model.Question{
		{Question: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A", Explanation: "e"},
		{Question: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B", Explanation: "e"},
	}
	encoded, err := model.EncodeQuestions(questions)
	require.NoError(t, err)
	test := &model.Test{UserID: "user-1", Title: "Math set", QuestionType: model.CategoryMath, QuestionCount: 2, Status: model.TestStatusReady, Questions: encoded}
	require.NoError(t, f.testRepo.Create(test))

	start, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", TestID: &test.ID})
	require.NoError(t, err)

	assert.Equal(t, model.ModeFinite, start.Mode)
	assert.Equal(t, model.CategoryMath, start.QuestionType)
	assert.Equal(t, 2, start.QueueLength)
	assert.Empty(t, f.generator.calls)
	assert.Equal(t, []string{model.TestStatusInProgress}, f.testRepo.statusUpdates)

	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "A"})
	require.NoError(t, err)
	_, err = f.svc.Advance(context.Background(), start.SessionID)
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(start.SessionID, dto.SubmitAnswerDTO{SelectedAnswer: "B"})
	require.NoError(t, err)
	snapshot, err := f.svc.Advance(context.Background(), start.SessionID)
	require.NoError(t, err)

	assert.True(t, snapshot.Completed)
	require.Len(t, f.testRepo.completeCalls, 1)
	assert.Equal(t, 2, f.testRepo.completeCalls[0].correct)
	// A test-backed run updates its test row instead of adding a practice record.
	assert.Empty(t, f.sessionRepo.created)
}

func TestStartSession_fromMissingTest(t *testing.T) {
	f := newSessionFixture(t)
	missing := uint(42)
	_, err := f.svc.Start(context.Background(), dto.StartSessionDTO{UserID: "user-1", TestID: &missing})
	assert.Error(t, err)
}
