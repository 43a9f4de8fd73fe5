package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures surfaced to the user
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindUnsupportedCapability means speech recognition is unavailable
	KindUnsupportedCapability
	// KindRecognitionFailure means the speech provider reported an error
	KindRecognitionFailure
	// KindGenerationFailure means a generation service rejected or timed out
	KindGenerationFailure
	// KindInvalidInput means the submitted ingredient list was empty
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedCapability:
		return "UnsupportedCapability"
	case KindRecognitionFailure:
		return "RecognitionFailure"
	case KindGenerationFailure:
		return "GenerationFailure"
	case KindInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}

// Error is a classified failure. Stage names the pipeline stage for generation failures.
type Error struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
