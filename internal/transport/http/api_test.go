package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quizgenius/internal/app"
	"quizgenius/internal/domain"
)

type stubGenerator struct {
	err error
}

func (g stubGenerator) Generate(_ context.Context, req domain.GenerateRequest) (domain.GeneratedQuiz, error) {
	if g.err != nil {
		return domain.GeneratedQuiz{}, g.err
	}
	questions := make([]domain.Question, req.QuestionCount)
	for i := range questions {
		questions[i] = domain.Question{Text: "Q", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0}
	}
	return domain.GeneratedQuiz{Title: "Generated", Description: "D", Tags: []string{"t"}, Questions: questions}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service, _ := newTestService(t)
	mux := http.NewServeMux()
	NewAPI(service).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func TestQuizRoutes(t *testing.T) {
	server := newTestServer(t)

	resp, body := do(t, http.MethodGet, server.URL+"/quizzes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	var quizzes []domain.Quiz
	if err := json.Unmarshal(body, &quizzes); err != nil || len(quizzes) == 0 || quizzes[0].ID != "quiz-1" {
		t.Fatalf("expected quiz-1 first, got %s err=%v", body, err)
	}

	resp, _ = do(t, http.MethodGet, server.URL+"/quizzes/quiz-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodDelete, server.URL+"/quizzes/quiz-1", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, server.URL+"/quizzes/quiz-1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestCreateQuizRoute(t *testing.T) {
	server := newTestServer(t)

	resp, body := do(t, http.MethodPost, server.URL+"/quizzes", domain.GenerateRequest{
		Text:          strings.Repeat("photosynthesis ", 10),
		Difficulty:    "medium",
		QuestionCount: 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d: %s", resp.StatusCode, body)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	if !strings.HasPrefix(quiz.ID, "quiz-") || len(quiz.Questions) != 2 || quiz.Difficulty != domain.DifficultyMedium {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	resp, _ = do(t, http.MethodPost, server.URL+"/quizzes", domain.GenerateRequest{Text: "short", Difficulty: "Easy", QuestionCount: 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for short text, got %d", resp.StatusCode)
	}
}

func TestSessionRoutes(t *testing.T) {
	server := newTestServer(t)

	resp, body := do(t, http.MethodPost, server.URL+"/sessions", map[string]string{"quizId": "quiz-1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start status %d: %s", resp.StatusCode, body)
	}
	var snap app.Snapshot
	_ = json.Unmarshal(body, &snap)
	base := server.URL + "/sessions/" + snap.SessionID

	resp, _ = do(t, http.MethodPost, base+"/next", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 advancing unanswered question, got %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodPost, base+"/select", map[string]int{"option": 9})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of range option, got %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodPost, base+"/select", map[string]int{"option": 0})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodPost, base+"/submit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status %d", resp.StatusCode)
	}

	resp, body = do(t, http.MethodGet, server.URL+"/results/quiz-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("result status %d", resp.StatusCode)
	}
	var result domain.QuizResult
	_ = json.Unmarshal(body, &result)
	if result.Score != 0 || result.TotalQuestions != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	resp, body = do(t, http.MethodGet, server.URL+"/history", nil)
	var history []app.HistoryEntry
	if err := json.Unmarshal(body, &history); err != nil || resp.StatusCode != http.StatusOK || len(history) != 1 {
		t.Fatalf("unexpected history %s err=%v", body, err)
	}
	if history[0].Band != domain.ScoreBandLow || history[0].Quiz == nil {
		t.Fatalf("unexpected history entry %+v", history[0])
	}

	resp, _ = do(t, http.MethodDelete, base, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("end status %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for ended session, got %d", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrGenerationInFlight: http.StatusTooManyRequests,
		domain.ErrGenerationFailed:   http.StatusBadGateway,
		domain.ErrSessionFinished:    http.StatusConflict,
		domain.ErrResultNotFound:     http.StatusNotFound,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Fatalf("statusFor(%v) = %d, want %d", err, got, want)
		}
	}
}
