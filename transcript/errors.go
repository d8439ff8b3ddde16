package transcript

import (
	"errors"
	"fmt"
)

// Kind classifies transcript acquisition failures so the orchestrator can
// decide whether to try the next adapter or give up.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindTooLong
	KindUnavailable
	KindNoTranscript
	KindEmptyResponse
	KindToolMissing
	KindToolFailed
	KindAudioDisabled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindTooLong:
		return "too_long"
	case KindUnavailable:
		return "unavailable"
	case KindNoTranscript:
		return "no_transcript"
	case KindEmptyResponse:
		return "empty_response"
	case KindToolMissing:
		return "tool_missing"
	case KindToolFailed:
		return "tool_failed"
	case KindAudioDisabled:
		return "audio_disabled"
	default:
		return "unknown"
	}
}

// Error is the failure type produced by the transcript adapters.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the failure kind from an error chain.
// Errors without a transcript classification report KindUnknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}
