package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"quizgenius/internal/app"
	"quizgenius/internal/domain"
	"quizgenius/internal/infra/memory"
)

var sourceText = strings.Repeat("Photosynthesis converts light energy into chemical energy. ", 4)

type generatorFunc func(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedQuiz, error)

func (f generatorFunc) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedQuiz, error) {
	return f(ctx, req)
}

func generated(n int) domain.GeneratedQuiz {
	out := domain.GeneratedQuiz{Title: "Plants", Description: "Light", Tags: []string{"biology"}}
	for i := 0; i < n; i++ {
		out.Questions = append(out.Questions, domain.Question{
			Text:         "Q",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
		})
	}
	return out
}

func newService(gen app.Generator) *app.QuizService {
	clock := func() time.Time { return time.UnixMilli(1750000000000) }
	return app.NewQuizServiceWithClock(memory.NewStore(), memory.NewSessionStore(0), gen, clock)
}

func TestCreateQuizAssignsIDsAndPreview(t *testing.T) {
	ctx := context.Background()
	var got domain.GenerateRequest
	svc := newService(generatorFunc(func(_ context.Context, req domain.GenerateRequest) (domain.GeneratedQuiz, error) {
		got = req
		return generated(3), nil
	}))

	quiz, err := svc.CreateQuiz(ctx, domain.GenerateRequest{Text: sourceText, Difficulty: "hard", QuestionCount: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Difficulty != domain.DifficultyHard || got.QuestionCount != 3 {
		t.Fatalf("generator got normalized request %+v", got)
	}
	if quiz.ID != "quiz-1750000000000" || quiz.CreatedAt != 1750000000000 || quiz.Difficulty != domain.DifficultyHard {
		t.Fatalf("unexpected quiz metadata %+v", quiz)
	}
	if quiz.Questions[2].ID != "q-1750000000000-2" {
		t.Fatalf("unexpected question id %q", quiz.Questions[2].ID)
	}
	if !strings.HasSuffix(quiz.SourceTextPreview, "...") || len([]rune(quiz.SourceTextPreview)) != 153 {
		t.Fatalf("expected 150 char preview plus ellipsis, got %q", quiz.SourceTextPreview)
	}

	list := svc.ListQuizzes(ctx)
	if len(list) == 0 || list[0].ID != quiz.ID {
		t.Fatalf("expected new quiz first, got %v", ids(list))
	}
}

func TestCreateQuizRejectsBadRequests(t *testing.T) {
	calls := 0
	svc := newService(generatorFunc(func(context.Context, domain.GenerateRequest) (domain.GeneratedQuiz, error) {
		calls++
		return generated(1), nil
	}))

	cases := map[string]domain.GenerateRequest{
		"blank":      {Text: "   ", Difficulty: "Easy", QuestionCount: 1},
		"short":      {Text: "too short", Difficulty: "Easy", QuestionCount: 1},
		"count":      {Text: sourceText, Difficulty: "Easy", QuestionCount: 0},
		"difficulty": {Text: sourceText, Difficulty: "Insane", QuestionCount: 1},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.CreateQuiz(context.Background(), req); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected invalid request, got %v", err)
			}
		})
	}
	if calls != 0 {
		t.Fatalf("generator must not run for invalid requests, ran %d times", calls)
	}
}

func TestCreateQuizWrapsGeneratorFailures(t *testing.T) {
	ctx := context.Background()
	svc := newService(generatorFunc(func(context.Context, domain.GenerateRequest) (domain.GeneratedQuiz, error) {
		return domain.GeneratedQuiz{}, errors.New("upstream 503")
	}))
	before := len(svc.ListQuizzes(ctx))

	if _, err := svc.CreateQuiz(ctx, domain.GenerateRequest{Text: sourceText, Difficulty: "Easy", QuestionCount: 2}); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected generation failed, got %v", err)
	}
	if after := len(svc.ListQuizzes(ctx)); after != before {
		t.Fatalf("failed generation must not touch the library: %d -> %d", before, after)
	}
}

func TestCreateQuizRejectsMalformedContent(t *testing.T) {
	svc := newService(generatorFunc(func(context.Context, domain.GenerateRequest) (domain.GeneratedQuiz, error) {
		bad := generated(1)
		bad.Questions[0].CorrectIndex = 9
		return bad, nil
	}))

	_, err := svc.CreateQuiz(context.Background(), domain.GenerateRequest{Text: sourceText, Difficulty: "Easy", QuestionCount: 1})
	if !errors.Is(err, domain.ErrGenerationFailed) || !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected generation failed wrapping invalid quiz, got %v", err)
	}
}

func TestCreateQuizAllowsOneGenerationAtATime(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	svc := newService(generatorFunc(func(context.Context, domain.GenerateRequest) (domain.GeneratedQuiz, error) {
		close(started)
		<-release
		return generated(1), nil
	}))
	req := domain.GenerateRequest{Text: sourceText, Difficulty: "Easy", QuestionCount: 1}

	done := make(chan error, 1)
	go func() {
		_, err := svc.CreateQuiz(ctx, req)
		done <- err
	}()
	<-started

	if _, err := svc.CreateQuiz(ctx, req); !errors.Is(err, domain.ErrGenerationInFlight) {
		t.Fatalf("expected in-flight rejection, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first generation: %v", err)
	}
}

func TestHistoryOrdersByCompletionAndKeepsOrphans(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	_ = svc.SaveQuiz(ctx, quizWithAnswers("quiz-A", 0, 0))
	_ = svc.SaveResult(ctx, domain.QuizResult{QuizID: "quiz-A", Score: 1, TotalQuestions: 2, Answers: []int{0, 1}, CompletedAt: 100})
	_ = svc.SaveResult(ctx, domain.QuizResult{QuizID: "gone", Score: 3, TotalQuestions: 3, Answers: []int{0, 0, 0}, CompletedAt: 200})

	history := svc.History(ctx)
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Result.QuizID != "gone" || history[0].Quiz != nil || history[0].Band != domain.ScoreBandHigh {
		t.Fatalf("unexpected first entry %+v", history[0])
	}
	if history[1].Quiz == nil || history[1].Quiz.ID != "quiz-A" || history[1].Percentage != 50 || history[1].Band != domain.ScoreBandMedium {
		t.Fatalf("unexpected second entry %+v", history[1])
	}
}

func TestDeleteQuizLeavesResult(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	_ = svc.SaveQuiz(ctx, quizWithAnswers("quiz-A", 0))
	_ = svc.SaveResult(ctx, domain.QuizResult{QuizID: "quiz-A", Score: 1, TotalQuestions: 1, Answers: []int{0}, CompletedAt: 1})

	if err := svc.DeleteQuiz(ctx, "quiz-A"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetQuiz(ctx, "quiz-A"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz gone, got %v", err)
	}
	if _, err := svc.Result(ctx, "quiz-A"); err != nil {
		t.Fatalf("expected orphan result to remain, got %v", err)
	}
}

func TestSessionLifecycleThroughService(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	_ = svc.SaveQuiz(ctx, quizWithAnswers("quiz-A", 2))

	snap, err := svc.StartSession(ctx, "quiz-A")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap.SessionID == "" || snap.Question == nil {
		t.Fatalf("expected a live first question, got %+v", snap)
	}
	if _, err := svc.Select(ctx, snap.SessionID, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := svc.Submit(ctx, snap.SessionID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	result, err := svc.Result(ctx, "quiz-A")
	if err != nil || result.Score != 1 || result.CompletedAt != 1750000000000 {
		t.Fatalf("expected stored result, got %+v (%v)", result, err)
	}

	svc.EndSession(ctx, snap.SessionID)
	if _, err := svc.SessionState(ctx, snap.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ended session to be gone, got %v", err)
	}

	again, err := svc.StartSession(ctx, "quiz-A")
	if err != nil || !again.Review {
		t.Fatalf("expected review mode on replay, got %+v (%v)", again, err)
	}
}

func TestStartSessionErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	_ = svc.SaveQuiz(ctx, domain.Quiz{ID: "empty"})

	if _, err := svc.StartSession(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.StartSession(ctx, "empty"); !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected invalid quiz, got %v", err)
	}
	if _, err := svc.Select(ctx, "nope", 0); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}
