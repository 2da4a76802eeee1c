package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates no stored quiz has the requested id.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrResultNotFound indicates the quiz has never been completed.
	ErrResultNotFound = errors.New("quiz result not found")
	// ErrSessionNotFound is returned when a play session id is unknown or expired.
	ErrSessionNotFound = errors.New("quiz session not found")

	// ErrNoSelection is returned when submitting without a selected option.
	ErrNoSelection = errors.New("no option selected")
	// ErrAlreadyAnswered is returned when selecting or submitting after the question was checked.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing before the current question was checked.
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrOptionOutOfRange is returned when the selected option does not exist.
	ErrOptionOutOfRange = errors.New("option out of range")
	// ErrSessionFinished is returned for play transitions on a finished session.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrSessionInProgress is returned when restarting a session that has not finished.
	ErrSessionInProgress = errors.New("quiz session still in progress")

	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidQuiz is returned when generated content fails shape validation.
	ErrInvalidQuiz = errors.New("invalid quiz content")
	// ErrGenerationFailed covers every failure of the generation adapter.
	ErrGenerationFailed = errors.New("quiz generation failed")
	// ErrGenerationInFlight is returned when a generation is already running.
	ErrGenerationInFlight = errors.New("quiz generation already in progress")

	// ErrNoData is returned by store decoding when the key has never been written.
	ErrNoData = errors.New("no data stored")
)

// ParseError reports stored bytes that could not be decoded.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
