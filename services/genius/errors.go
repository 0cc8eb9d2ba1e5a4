package genius

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by this package matches exactly one
// of these with errors.Is.
var (
	ErrTransportFailure       = errors.New("could not receive response")
	ErrUnsuccessfulStatus     = errors.New("unsuccessful request")
	ErrDeserializationFailure = errors.New("could not deserialize json body")
	ErrNoResults              = errors.New("no songs returned from search")
	ErrFetchFailure           = errors.New("could not fetch lyrics page")
)

// SearchError is returned by Client.Search
type SearchError struct {
	Kind       error
	StatusCode int // set for ErrUnsuccessfulStatus
	Err        error
}

func (e *SearchError) Error() string {
	msg := e.Kind.Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s, status: %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SearchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FetchError is returned by Client.FetchPage
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrFetchFailure.Error(), e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailure, e.Err}
}

// Stage identifies which pipeline step failed
type Stage string

const (
	StageSearch Stage = "search"
	StageSelect Stage = "select"
	StageFetch  Stage = "fetch"
)

// PipelineError records the stage that short-circuited a lookup
type PipelineError struct {
	Stage Stage
	Term  string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Stage, e.Term, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind sentinel carried by err, or nil if err did
// not originate in this package.
func Kind(err error) error {
	for _, kind := range []error{
		ErrTransportFailure,
		ErrUnsuccessfulStatus,
		ErrDeserializationFailure,
		ErrNoResults,
		ErrFetchFailure,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// StageOf returns the failed stage of a pipeline error, or "" otherwise.
func StageOf(err error) Stage {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}

// StatusCode returns the upstream HTTP status for ErrUnsuccessfulStatus errors.
func StatusCode(err error) int {
	var se *SearchError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// KindName is a short machine-readable name for an error kind.
func KindName(err error) string {
	switch Kind(err) {
	case ErrTransportFailure:
		return "transport_failure"
	case ErrUnsuccessfulStatus:
		return "unsuccessful_status"
	case ErrDeserializationFailure:
		return "deserialization_failure"
	case ErrNoResults:
		return "no_results"
	case ErrFetchFailure:
		return "fetch_failure"
	default:
		return "unknown"
	}
}
