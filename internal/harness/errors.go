package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResultSet is returned by Average when no measurements exist
	// for the requested document.
	ErrEmptyResultSet = errors.New("empty result set")

	// ErrConcurrentRunRejected is returned when a run is requested while
	// another run on the same Harness is still active.
	ErrConcurrentRunRejected = errors.New("concurrent run rejected: a run is already active")

	// ErrInvalidIterations is returned when fewer than one iteration is requested.
	ErrInvalidIterations = errors.New("iterations must be at least 1")

	// ErrNoDocuments is returned when a run is requested over zero documents.
	ErrNoDocuments = errors.New("no documents to run")
)

// Phase identifies which half of a trial failed.
type Phase int

const (
	PhaseEncode Phase = iota + 1
	PhaseDecode
)

func (p Phase) String() string {
	switch p {
	case PhaseEncode:
		return "encode"
	case PhaseDecode:
		return "decode"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// TrialError reports a failing encode or decode callback. A run that hits
// one is aborted and its partial results are discarded.
type TrialError struct {
	Document  string
	Phase     Phase
	Iteration int
	Cause     error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial failed: %s %q (iteration %d): %v", e.Phase, e.Document, e.Iteration, e.Cause)
}

func (e *TrialError) Unwrap() error { return e.Cause }
