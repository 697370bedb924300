package errors

import "errors"

var (
	// ErrEngineUnavailable is fatal for an entire analysis run: the engine
	// process is missing, failed to start or stopped responding. It is never
	// retried per position.
	ErrEngineUnavailable = errors.New("evaluation engine is unavailable")

	// ErrAmbiguousColor means the caller did not supply a usable color for
	// the analyzed player. The pipeline refuses to start rather than guess.
	ErrAmbiguousColor = errors.New("analyzed player color is ambiguous")

	ErrUnparsableGame      = errors.New("game move list is empty or malformed")
	ErrGameNotFound        = errors.New("game not found")
	ErrErrorRecordNotFound = errors.New("error record not found")
	ErrNoProgress          = errors.New("no analysis progress for key")
)
