package app

import (
	"context"
	"sync"
	"time"

	"quizgenius/internal/domain"
)

// Phase is the coarse state of a play session.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// State is the immutable value a play session moves through. Transition methods
// return the next State or a rejection error and never modify the receiver.
type State struct {
	Phase         Phase
	QuestionIndex int
	Selected      int
	HasSelection  bool
	Answered      bool
	Score         int
	Answers       []int
	// Review is set when the finished state was loaded from a stored result.
	Review bool
}

// InitialState starts in review mode when a previous result exists.
func InitialState(previous *domain.QuizResult) State {
	if previous != nil {
		return State{
			Phase:   PhaseFinished,
			Score:   previous.Score,
			Answers: append([]int(nil), previous.Answers...),
			Review:  true,
		}
	}
	return State{Phase: PhaseInProgress}
}

func (s State) Select(quiz domain.Quiz, option int) (State, error) {
	if s.Phase != PhaseInProgress {
		return s, domain.ErrSessionFinished
	}
	if s.Answered {
		return s, domain.ErrAlreadyAnswered
	}
	if s.QuestionIndex >= len(quiz.Questions) {
		return s, domain.ErrInvalidQuiz
	}
	// a question without options still takes an answer; it scores as wrong
	options := len(quiz.Questions[s.QuestionIndex].Options)
	if option < 0 || (options > 0 && option >= options) {
		return s, domain.ErrOptionOutOfRange
	}
	s.Selected = option
	s.HasSelection = true
	return s, nil
}

// Submit checks the pending selection. On the last question it also returns the
// completed result; the caller is responsible for persisting it.
func (s State) Submit(quiz domain.Quiz, now time.Time) (State, *domain.QuizResult, error) {
	if s.Phase != PhaseInProgress {
		return s, nil, domain.ErrSessionFinished
	}
	if s.Answered {
		return s, nil, domain.ErrAlreadyAnswered
	}
	if !s.HasSelection {
		return s, nil, domain.ErrNoSelection
	}
	if s.QuestionIndex >= len(quiz.Questions) {
		return s, nil, domain.ErrInvalidQuiz
	}

	answers := make([]int, s.QuestionIndex, s.QuestionIndex+1)
	copy(answers, s.Answers)
	s.Answers = append(answers, s.Selected)
	if quiz.Questions[s.QuestionIndex].IsCorrect(s.Selected) {
		s.Score++
	}
	s.Answered = true

	if s.QuestionIndex < len(quiz.Questions)-1 {
		return s, nil, nil
	}
	result := &domain.QuizResult{
		QuizID:         quiz.ID,
		Score:          s.Score,
		TotalQuestions: len(quiz.Questions),
		Answers:        append([]int(nil), s.Answers...),
		CompletedAt:    now.UnixMilli(),
	}
	return s, result, nil
}

func (s State) Advance(quiz domain.Quiz) (State, error) {
	if s.Phase != PhaseInProgress {
		return s, domain.ErrSessionFinished
	}
	if !s.Answered {
		return s, domain.ErrNotAnswered
	}
	if s.QuestionIndex < len(quiz.Questions)-1 {
		s.QuestionIndex++
		s.Selected = 0
		s.HasSelection = false
		s.Answered = false
		return s, nil
	}
	s.Phase = PhaseFinished
	s.Review = false
	return s, nil
}

func (s State) Restart() (State, error) {
	if s.Phase != PhaseFinished {
		return s, domain.ErrSessionInProgress
	}
	return State{Phase: PhaseInProgress}, nil
}

// ResultSaver persists completed attempts.
type ResultSaver interface {
	Save(ctx context.Context, result domain.QuizResult) error
}

// ResultLoader looks up the previous attempt of a quiz.
type ResultLoader interface {
	GetByQuizID(ctx context.Context, quizID string) (domain.QuizResult, bool)
}

// ResultStore is satisfied by *ResultRepository.
type ResultStore interface {
	ResultSaver
	ResultLoader
}

// Session drives a State for one quiz and persists the result on the last submit.
type Session struct {
	id      string
	quiz    domain.Quiz
	results ResultStore
	now     func() time.Time

	mu    sync.Mutex
	state State
}

// NewSession initializes a session, entering review mode if results holds a previous attempt.
func NewSession(ctx context.Context, id string, quiz domain.Quiz, results ResultStore) *Session {
	return NewSessionWithClock(ctx, id, quiz, results, time.Now)
}

// NewSessionWithClock is NewSession with a deterministic clock for tests.
func NewSessionWithClock(ctx context.Context, id string, quiz domain.Quiz, results ResultStore, now func() time.Time) *Session {
	var previous *domain.QuizResult
	if result, ok := results.GetByQuizID(ctx, quiz.ID); ok {
		previous = &result
	}
	return &Session{
		id:      id,
		quiz:    quiz,
		results: results,
		now:     now,
		state:   InitialState(previous),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) QuizID() string {
	return s.quiz.ID
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Select(option int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.Select(s.quiz, option)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next
	return s.snapshotLocked(), nil
}

// Submit checks the selection. The final submit persists the result before the
// state changes, so a failed write leaves the question unanswered.
func (s *Session) Submit(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, result, err := s.state.Submit(s.quiz, s.now())
	if err != nil {
		return Snapshot{}, err
	}
	if result != nil {
		if err := s.results.Save(ctx, *result); err != nil {
			return Snapshot{}, err
		}
	}
	s.state = next
	return s.snapshotLocked(), nil
}

func (s *Session) Advance() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.Advance(s.quiz)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next
	return s.snapshotLocked(), nil
}

func (s *Session) Restart() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.Restart()
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next
	return s.snapshotLocked(), nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Snapshot is the transport-friendly view of a session.
type Snapshot struct {
	SessionID      string          `json:"sessionId"`
	QuizID         string          `json:"quizId"`
	Phase          Phase           `json:"phase"`
	Review         bool            `json:"review"`
	QuestionIndex  int             `json:"questionIndex"`
	TotalQuestions int             `json:"totalQuestions"`
	Question       *QuestionView   `json:"question,omitempty"`
	Selected       *int            `json:"selected,omitempty"`
	Answered       bool            `json:"answered"`
	Feedback       *AnswerFeedback `json:"feedback,omitempty"`
	Score          int             `json:"score"`
	Answers        []int           `json:"answers"`
	Percentage     int             `json:"percentage"`
}

// QuestionView omits the correct index so clients cannot read it before answering.
type QuestionView struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type AnswerFeedback struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation,omitempty"`
}

func (s *Session) snapshotLocked() Snapshot {
	st := s.state
	total := len(s.quiz.Questions)
	snap := Snapshot{
		SessionID:      s.id,
		QuizID:         s.quiz.ID,
		Phase:          st.Phase,
		Review:         st.Review,
		QuestionIndex:  st.QuestionIndex,
		TotalQuestions: total,
		Answered:       st.Answered,
		Score:          st.Score,
		Answers:        append([]int{}, st.Answers...),
		Percentage:     domain.Percentage(st.Score, total),
	}
	if st.Phase == PhaseFinished || st.QuestionIndex >= total {
		return snap
	}

	q := s.quiz.Questions[st.QuestionIndex]
	snap.Question = &QuestionView{ID: q.ID, Text: q.Text, Options: append([]string{}, q.Options...)}
	if st.HasSelection {
		selected := st.Selected
		snap.Selected = &selected
	}
	if st.Answered {
		snap.Feedback = &AnswerFeedback{
			Correct:      q.IsCorrect(st.Selected),
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
	}
	return snap
}
