package evaluator

import (
	"errors"
	"fmt"
)

// Kind classifies why an evaluation failed.
type Kind string

const (
	KindTransportFailure  Kind = "TRANSPORT_FAILURE"
	KindEmptyResponse     Kind = "EMPTY_RESPONSE"
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
)

// Sentinels for errors.Is matching against an *EvaluationError.
var (
	ErrTransportFailure  = errors.New("transport failure")
	ErrEmptyResponse     = errors.New("model returned no text")
	ErrMalformedResponse = errors.New("malformed model response")
)

type EvaluationError struct {
	Kind  Kind
	Cause error
}

func (e *EvaluationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("evaluation failed [%s]", e.Kind)
	}
	return fmt.Sprintf("evaluation failed [%s]: %v", e.Kind, e.Cause)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

func (e *EvaluationError) Is(target error) bool {
	switch target {
	case ErrTransportFailure:
		return e.Kind == KindTransportFailure
	case ErrEmptyResponse:
		return e.Kind == KindEmptyResponse
	case ErrMalformedResponse:
		return e.Kind == KindMalformedResponse
	}
	return false
}

// KindOf returns the failure kind carried by err, or "" when err is not an
// evaluation failure.
func KindOf(err error) Kind {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Kind
	}
	return ""
}
