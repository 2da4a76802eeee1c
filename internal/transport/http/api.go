package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quizgenius/internal/app"
	"quizgenius/internal/domain"
)

// API exposes the library, history and play use cases as JSON over HTTP.
type API struct {
	service *app.QuizService
}

func NewAPI(service *app.QuizService) *API {
	return &API{service: service}
}

// Register mounts every route on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /quizzes", a.listQuizzes)
	mux.HandleFunc("POST /quizzes", a.createQuiz)
	mux.HandleFunc("GET /quizzes/{id}", a.getQuiz)
	mux.HandleFunc("DELETE /quizzes/{id}", a.deleteQuiz)
	mux.HandleFunc("GET /results", a.listResults)
	mux.HandleFunc("GET /results/{quizId}", a.getResult)
	mux.HandleFunc("GET /history", a.history)
	mux.HandleFunc("POST /sessions", a.startSession)
	mux.HandleFunc("GET /sessions/{id}", a.sessionState)
	mux.HandleFunc("POST /sessions/{id}/select", a.selectOption)
	mux.HandleFunc("POST /sessions/{id}/submit", a.submit)
	mux.HandleFunc("POST /sessions/{id}/next", a.advance)
	mux.HandleFunc("POST /sessions/{id}/restart", a.restart)
	mux.HandleFunc("DELETE /sessions/{id}", a.endSession)
}

func (a *API) listQuizzes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.ListQuizzes(r.Context()))
}

func (a *API) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	quiz, err := a.service.CreateQuiz(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (a *API) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := a.service.GetQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (a *API) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteQuiz(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Results(r.Context()))
}

func (a *API) getResult(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Result(r.Context(), r.PathValue("quizId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) history(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.History(r.Context()))
}

type startSessionPayload struct {
	QuizID string `json:"quizId"`
}

func (a *API) startSession(w http.ResponseWriter, r *http.Request) {
	var payload startSessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.QuizID == "" {
		writeError(w, http.StatusBadRequest, "missing quizId")
		return
	}
	snap, err := a.service.StartSession(r.Context(), payload.QuizID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (a *API) sessionState(w http.ResponseWriter, r *http.Request) {
	a.respondSnapshot(w)(a.service.SessionState(r.Context(), r.PathValue("id")))
}

func (a *API) selectOption(w http.ResponseWriter, r *http.Request) {
	var payload selectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Option == nil {
		writeError(w, http.StatusBadRequest, "missing option")
		return
	}
	a.respondSnapshot(w)(a.service.Select(r.Context(), r.PathValue("id"), *payload.Option))
}

func (a *API) submit(w http.ResponseWriter, r *http.Request) {
	a.respondSnapshot(w)(a.service.Submit(r.Context(), r.PathValue("id")))
}

func (a *API) advance(w http.ResponseWriter, r *http.Request) {
	a.respondSnapshot(w)(a.service.Advance(r.Context(), r.PathValue("id")))
}

func (a *API) restart(w http.ResponseWriter, r *http.Request) {
	a.respondSnapshot(w)(a.service.Restart(r.Context(), r.PathValue("id")))
}

func (a *API) endSession(w http.ResponseWriter, r *http.Request) {
	a.service.EndSession(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) respondSnapshot(w http.ResponseWriter) func(app.Snapshot, error) {
	return func(snap app.Snapshot, err error) {
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrOptionOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSelection),
		errors.Is(err, domain.ErrAlreadyAnswered),
		errors.Is(err, domain.ErrNotAnswered),
		errors.Is(err, domain.ErrSessionFinished),
		errors.Is(err, domain.ErrSessionInProgress),
		errors.Is(err, domain.ErrInvalidQuiz) && !errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGenerationInFlight):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		log.Printf("request failed: %v", err)
		return http.StatusInternalServerError
	}
}
