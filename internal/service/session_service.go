package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/model"
	"github.com/quillmont/satprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	questionSeconds     = 150
	finiteSessionLength = 5
	infiniteSeedCount   = 2
	prefetchBatchSize   = 2
	sessionDifficulty   = "medium"
)

var (
	ErrSessionNotFound  = errors.New("practice session not found")
	ErrNoSelection      = errors.New("no answer selected")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrSessionCompleted = errors.New("practice session is completed")
	ErrQuestionPending  = errors.New("next question is still generating")
)

// practiceSession is the in-memory state for one ongoing run. All access
// goes through the owning sessionService with the service mutex held.
type practiceSession struct {
	id            string
	userID        string
	questionType  string
	mode          string
	testID        *uint
	questionCount int

	queue           []model.Question
	index           int
	answered        bool
	lastCorrect     bool
	frozenTimeLeft  int
	totalAnswered   int
	correctAnswers  int
	durationSeconds int
	questionStart   time.Time
	excluded        map[string]struct{}

	completed   bool
	persisted   bool
	prefetching bool
	notices     []string
}

// SessionService is the state machine driving a practice run:
// loading → active(question i) → … → completed, with a per-question
// unanswered → answered sub-state.
type SessionService interface {
	Start(ctx context.Context, req dto.StartSessionDTO) (*dto.SessionSnapshotDTO, error)
	Snapshot(sessionID string) (*dto.SessionSnapshotDTO, error)
	SubmitAnswer(sessionID string, req dto.SubmitAnswerDTO) (*dto.SessionSnapshotDTO, error)
	Advance(ctx context.Context, sessionID string) (*dto.SessionSnapshotDTO, error)
	ToggleExclusion(sessionID, option string) (*dto.SessionSnapshotDTO, error)
}

type sessionService struct {
	generator   GenerationService
	testRepo    repository.TestRepository
	sessionRepo repository.SessionRepository
	progress    ProgressService

	mu       sync.Mutex
	sessions map[string]*practiceSession
	now      func() time.Time
}

func NewSessionService(
	generator GenerationService,
	testRepo repository.TestRepository,
	sessionRepo repository.SessionRepository,
	progress ProgressService,
) SessionService {
	return &sessionService{
		generator:   generator,
		testRepo:    testRepo,
		sessionRepo: sessionRepo,
		progress:    progress,
		sessions:    make(map[string]*practiceSession),
		now:         time.Now,
	}
}

func (s *sessionService) Start(ctx context.Context, req dto.StartSessionDTO) (*dto.SessionSnapshotDTO, error) {
	mode := req.Mode
	if mode == "" {
		mode = model.ModeFinite
	}
	if mode != model.ModeFinite && mode != model.ModeInfinite {
		return nil, fmt.Errorf("unknown session mode %q", mode)
	}
	questionType := req.QuestionType
	if questionType == "" {
		questionType = model.CategoryReading
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = sessionDifficulty
	}

	session := &practiceSession{
		id:           uuid.NewString(),
		userID:       req.UserID,
		questionType: questionType,
		mode:         mode,
		testID:       req.TestID,
		excluded:     make(map[string]struct{}),
	}

	if req.TestID != nil {
		test, err := s.testRepo.FindByID(*req.TestID)
		if err != nil {
			return nil, fmt.Errorf("test not found with ID %d: %w", *req.TestID, err)
		}
		questions, err := model.DecodeStoredQuestions(test.Questions)
		if err != nil {
			return nil, fmt.Errorf("test %d has unreadable questions: %w", test.ID, err)
		}
		if len(questions) == 0 {
			return nil, fmt.Errorf("test %d has no questions", test.ID)
		}
		session.mode = model.ModeFinite
		session.questionType = test.QuestionType
		session.queue = questions
		session.questionCount = len(questions)
		if err := s.testRepo.UpdateStatus(test.ID, model.TestStatusInProgress); err != nil {
			log.Warn().Err(err).Uint("testID", test.ID).Msg("Failed to mark test in-progress")
		}
	} else {
		seed := finiteSessionLength
		session.questionCount = finiteSessionLength
		if mode == model.ModeInfinite {
			seed = infiniteSeedCount
			session.questionCount = 0
		}
		questions, err := s.generator.GenerateQuestions(ctx, questionType, difficulty, seed)
		if err != nil {
			return nil, err
		}
		session.queue = questions
		if mode == model.ModeFinite && len(questions) < session.questionCount {
			session.questionCount = len(questions)
		}
	}

	session.questionStart = s.now()

	s.mu.Lock()
	s.sessions[session.id] = session
	snapshot := s.snapshotLocked(session)
	s.mu.Unlock()
	return snapshot, nil
}

func (s *sessionService) Snapshot(sessionID string) (*dto.SessionSnapshotDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.snapshotLocked(session), nil
}

// SubmitAnswer scores the current question against the selected option by
// exact string comparison. Counters and elapsed time update here; the
// per-section progress write is detached, with failures surfaced as a
// session notice rather than rolled back.
func (s *sessionService) SubmitAnswer(sessionID string, req dto.SubmitAnswerDTO) (*dto.SessionSnapshotDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.completed {
		return nil, ErrSessionCompleted
	}
	if session.answered {
		return nil, ErrAlreadyAnswered
	}
	if req.SelectedAnswer == "" {
		return nil, ErrNoSelection
	}
	if session.index >= len(session.queue) {
		return nil, ErrQuestionPending
	}

	question := session.queue[session.index]
	correct := req.SelectedAnswer == question.CorrectAnswer

	remaining := s.timeLeftLocked(session)
	session.durationSeconds += questionSeconds - remaining
	session.frozenTimeLeft = remaining
	session.answered = true
	session.lastCorrect = correct
	session.totalAnswered++
	if correct {
		session.correctAnswers++
	}

	go s.recordProgress(sessionID, session.userID, session.questionType, correct)

	return s.snapshotLocked(session), nil
}

// Advance moves to the next question. In finite mode, running past the
// configured count completes the session exactly once and persists it. In
// infinite mode a prefetch of 2 questions is kicked off as a detached task
// once fewer than 2 questions remain ahead of the cursor.
func (s *sessionService) Advance(ctx context.Context, sessionID string) (*dto.SessionSnapshotDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.completed {
		return nil, ErrSessionCompleted
	}

	nextIndex := session.index + 1

	if session.mode == model.ModeFinite && nextIndex >= session.questionCount {
		session.completed = true
		s.persistLocked(session)
		return s.snapshotLocked(session), nil
	}

	// Fewer than 2 questions ahead of the cursor: start refilling now so the
	// user rarely hits the end of the queue.
	if session.mode == model.ModeInfinite && nextIndex >= len(session.queue)-2 && !session.prefetching {
		session.prefetching = true
		go s.prefetch(sessionID, session.questionType)
	}

	if nextIndex >= len(session.queue) {
		return nil, ErrQuestionPending
	}

	session.index = nextIndex
	session.answered = false
	session.lastCorrect = false
	session.frozenTimeLeft = 0
	session.excluded = make(map[string]struct{})
	session.questionStart = s.now()

	return s.snapshotLocked(session), nil
}

// ToggleExclusion marks or unmarks an option as ruled out. Cosmetic session
// state only; it never affects scoring.
func (s *sessionService) ToggleExclusion(sessionID, option string) (*dto.SessionSnapshotDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if _, excluded := session.excluded[option]; excluded {
		delete(session.excluded, option)
	} else {
		session.excluded[option] = struct{}{}
	}
	return s.snapshotLocked(session), nil
}

// prefetch runs outside any request; it is the detached task behind
// infinite mode's latency hiding. Failures become session notices.
func (s *sessionService) prefetch(sessionID, questionType string) {
	questions, err := s.generator.GenerateQuestions(context.Background(), questionType, sessionDifficulty, prefetchBatchSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	session.prefetching = false
	if err != nil {
		log.Warn().Err(err).Str("sessionID", sessionID).Msg("Background question prefetch failed")
		session.notices = append(session.notices, "Failed to generate more questions. You can keep answering the remaining ones.")
		return
	}
	session.queue = append(session.queue, questions...)
}

func (s *sessionService) recordProgress(sessionID, userID, section string, correct bool) {
	if _, err := s.progress.RecordAnswer(userID, section, correct); err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("Failed to record answer in user progress")
		s.mu.Lock()
		defer s.mu.Unlock()
		if session, ok := s.sessions[sessionID]; ok {
			session.notices = append(session.notices, "Failed to save progress")
		}
	}
}

// persistLocked writes the finished session exactly once: test-backed
// sessions mark their test completed, ad hoc sessions append a practice
// record. A write failure becomes a notice; in-memory state stands.
func (s *sessionService) persistLocked(session *practiceSession) {
	if session.persisted {
		return
	}
	session.persisted = true

	var err error
	if session.testID != nil {
		err = s.testRepo.Complete(*session.testID, session.index, session.correctAnswers)
	} else {
		err = s.sessionRepo.Create(&model.PracticeSession{
			UserID:          session.userID,
			QuestionType:    session.questionType,
			Mode:            session.mode,
			TotalQuestions:  session.totalAnswered,
			CorrectAnswers:  session.correctAnswers,
			DurationSeconds: session.durationSeconds,
		})
	}
	if err != nil {
		log.Error().Err(err).Str("sessionID", session.id).Msg("Failed to persist completed session")
		session.notices = append(session.notices, "Failed to save progress")
		return
	}
	log.Info().Str("sessionID", session.id).Int("total", session.totalAnswered).Int("correct", session.correctAnswers).Msg("Practice session saved")
}

func (s *sessionService) timeLeftLocked(session *practiceSession) int {
	if session.answered {
		return session.frozenTimeLeft
	}
	elapsed := int(s.now().Sub(session.questionStart).Seconds())
	remaining := questionSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *sessionService) snapshotLocked(session *practiceSession) *dto.SessionSnapshotDTO {
	snapshot := &dto.SessionSnapshotDTO{
		SessionID:       session.id,
		UserID:          session.userID,
		QuestionType:    session.questionType,
		Mode:            session.mode,
		QuestionIndex:   session.index,
		QueueLength:     len(session.queue),
		TotalAnswered:   session.totalAnswered,
		CorrectAnswers:  session.correctAnswers,
		Answered:        session.answered,
		TimeLeft:        s.timeLeftLocked(session),
		ExcludedOptions: make([]string, 0, len(session.excluded)),
		Completed:       session.completed,
	}
	for option := range session.excluded {
		snapshot.ExcludedOptions = append(snapshot.ExcludedOptions, option)
	}

	// Notices are drained on read; each one is delivered exactly once.
	if len(session.notices) > 0 {
		snapshot.Notices = session.notices
		session.notices = nil
	}

	if session.completed {
		snapshot.Summary = sessionSummary(session)
		return snapshot
	}

	if session.index < len(session.queue) {
		question := session.queue[session.index]
		view := &dto.SessionQuestionDTO{
			Question: question.Question,
			Options:  question.Options,
		}
		if session.answered {
			view.CorrectAnswer = question.CorrectAnswer
			view.Explanation = question.Explanation
			correct := session.lastCorrect
			snapshot.Correct = &correct
		}
		snapshot.Question = view
	}
	return snapshot
}

func sessionSummary(session *practiceSession) *dto.SessionSummaryDTO {
	summary := &dto.SessionSummaryDTO{
		CorrectAnswers:  session.correctAnswers,
		TotalQuestions:  session.totalAnswered,
		DurationSeconds: session.durationSeconds,
	}
	if session.totalAnswered > 0 {
		summary.ScorePercent = int(math.Round(float64(session.correctAnswers) / float64(session.totalAnswered) * 100))
		summary.AverageSeconds = int(math.Round(float64(session.durationSeconds) / float64(session.totalAnswered)))
	}
	return summary
}
