package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"quizgenius/internal/domain"
	"github.com/google/uuid"
)

const (
	minSourceChars = 50
	previewChars   = 150
)

// SessionRepository abstracts where live play sessions are kept (in-memory, Redis-backed, etc).
type SessionRepository interface {
	Add(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// Generator turns source text into quiz content.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedQuiz, error)
}

// QuizService contains the quiz library, history and play use cases.
type QuizService struct {
	quizzes   *QuizRepository
	results   *ResultRepository
	sessions  SessionRepository
	generator Generator
	now       func() time.Time

	generating atomic.Bool
}

func NewQuizService(store Store, sessions SessionRepository, generator Generator) *QuizService {
	return NewQuizServiceWithClock(store, sessions, generator, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic ids and timestamps.
func NewQuizServiceWithClock(store Store, sessions SessionRepository, generator Generator, now func() time.Time) *QuizService {
	return &QuizService{
		quizzes:   NewQuizRepository(store),
		results:   NewResultRepository(store),
		sessions:  sessions,
		generator: generator,
		now:       now,
	}
}

func (s *QuizService) ListQuizzes(ctx context.Context) []domain.Quiz {
	return s.quizzes.List(ctx)
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, ok := s.quizzes.GetByID(ctx, quizID)
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	return s.quizzes.Save(ctx, quiz)
}

// DeleteQuiz removes the quiz. Its stored result, if any, is left in place.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID string) error {
	return s.quizzes.Delete(ctx, quizID)
}

func (s *QuizService) Results(ctx context.Context) map[string]domain.QuizResult {
	return s.results.GetAll(ctx)
}

func (s *QuizService) Result(ctx context.Context, quizID string) (domain.QuizResult, error) {
	result, ok := s.results.GetByQuizID(ctx, quizID)
	if !ok {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	return result, nil
}

func (s *QuizService) SaveResult(ctx context.Context, result domain.QuizResult) error {
	return s.results.Save(ctx, result)
}

// CreateQuiz generates a quiz from source text and stores it at the front of the library.
// Only one generation may run at a time.
func (s *QuizService) CreateQuiz(ctx context.Context, req domain.GenerateRequest) (domain.Quiz, error) {
	if strings.TrimSpace(req.Text) == "" {
		return domain.Quiz{}, fmt.Errorf("%w: source text is empty", domain.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(req.Text) < minSourceChars {
		return domain.Quiz{}, fmt.Errorf("%w: source text needs at least %d characters", domain.ErrInvalidRequest, minSourceChars)
	}
	if req.QuestionCount < 1 {
		return domain.Quiz{}, fmt.Errorf("%w: question count must be positive", domain.ErrInvalidRequest)
	}
	difficulty, err := domain.ParseDifficulty(string(req.Difficulty))
	if err != nil {
		return domain.Quiz{}, err
	}
	req.Difficulty = difficulty

	if !s.generating.CompareAndSwap(false, true) {
		return domain.Quiz{}, domain.ErrGenerationInFlight
	}
	defer s.generating.Store(false)

	if s.generator == nil {
		return domain.Quiz{}, fmt.Errorf("%w: no generator configured", domain.ErrGenerationFailed)
	}
	generated, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.Printf("quiz generation failed: %v", err)
		if errors.Is(err, domain.ErrGenerationFailed) {
			return domain.Quiz{}, err
		}
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if err := domain.ValidateGenerated(generated); err != nil {
		log.Printf("generated quiz rejected: %v", err)
		return domain.Quiz{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	millis := s.now().UnixMilli()
	questions := make([]domain.Question, len(generated.Questions))
	for i, q := range generated.Questions {
		if q.ID == "" {
			q.ID = fmt.Sprintf("q-%d-%d", millis, i)
		}
		questions[i] = q
	}
	quiz := domain.Quiz{
		ID:                fmt.Sprintf("quiz-%d", millis),
		Title:             generated.Title,
		Description:       generated.Description,
		SourceTextPreview: preview(req.Text),
		CreatedAt:         millis,
		Difficulty:        difficulty,
		Tags:              generated.Tags,
		Questions:         questions,
	}
	if err := s.quizzes.Save(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewChars {
		return text
	}
	return string([]rune(text)[:previewChars]) + "..."
}

// StartSession begins playing a quiz. A quiz with a stored result starts in review mode.
func (s *QuizService) StartSession(ctx context.Context, quizID string) (Snapshot, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return Snapshot{}, err
	}
	if len(quiz.Questions) == 0 {
		return Snapshot{}, fmt.Errorf("%w: quiz %s has no questions", domain.ErrInvalidQuiz, quizID)
	}
	session := NewSessionWithClock(ctx, uuid.NewString(), quiz, s.results, s.now)
	s.sessions.Add(session)
	return session.Snapshot(), nil
}

func (s *QuizService) SessionState(_ context.Context, sessionID string) (Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *QuizService) Select(_ context.Context, sessionID string, option int) (Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Select(option)
}

// Submit checks the selected option; the last question's submit stores the result.
func (s *QuizService) Submit(ctx context.Context, sessionID string) (Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Submit(ctx)
}

func (s *QuizService) Advance(_ context.Context, sessionID string) (Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Advance()
}

func (s *QuizService) Restart(_ context.Context, sessionID string) (Snapshot, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Restart()
}

// EndSession drops a live session. Unknown ids are ignored.
func (s *QuizService) EndSession(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *QuizService) session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
