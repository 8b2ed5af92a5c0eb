package domain

import "errors"

var (
	// ErrUnknownMode is returned when a mode name does not match any play mode.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrUnknownDifficulty is returned for difficulty names outside Easy/Medium/Hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrQuestionSetNotFound indicates the question content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrInvalidQuestionSet indicates a question document failed validation.
	ErrInvalidQuestionSet = errors.New("invalid question set")
	// ErrNoActiveRun is returned when an action needs a run and none was started.
	ErrNoActiveRun = errors.New("no active run")
	// ErrCannotProceed is returned when Proceed is requested before the run earned it.
	ErrCannotProceed = errors.New("run cannot proceed")
)
