package turn

import (
	"errors"
	"fmt"
)

// Stage identifies a step of the turn pipeline.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageAnswer        Stage = "answer"
	StageSynthesis     Stage = "synthesis"
)

// Kind classifies what went wrong inside a stage.
type Kind string

const (
	KindInvalidAudio        Kind = "invalid_audio"
	KindTranscriptionFailed Kind = "transcription_failed"
	KindEmptyQuery          Kind = "empty_query"
	KindAnswerFailed        Kind = "answer_failed"
	KindEmptyText           Kind = "empty_text"
	KindSynthesisFailed     Kind = "synthesis_failed"
)

// Error is an adapter failure tied to a pipeline stage. It wraps the
// underlying remote cause so callers can still errors.Is/As into it.
type Error struct {
	Stage Stage  `json:"stage"`
	Kind  Kind   `json:"kind"`
	Cause error  `json:"-"`
	Msg   string `json:"message"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Cause)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Fatal reports whether the error aborts the turn. Synthesis failures
// degrade to a text-only result instead.
func (e *Error) Fatal() bool { return e.Stage != StageSynthesis }

func newError(stage Stage, kind Kind, cause error, msg string) *Error {
	return &Error{Stage: stage, Kind: kind, Cause: cause, Msg: msg}
}

// ErrInvalidAudio reports audio that is empty or not decodable.
func ErrInvalidAudio(msg string) *Error {
	return newError(StageTranscription, KindInvalidAudio, nil, msg)
}

// ErrTranscription wraps a failure of the speech-recognition backend.
func ErrTranscription(cause error) *Error {
	return newError(StageTranscription, KindTranscriptionFailed, cause, "speech recognition failed")
}

// ErrEmptyQuery reports an empty question reaching the answer stage.
func ErrEmptyQuery() *Error {
	return newError(StageAnswer, KindEmptyQuery, nil, "question text is empty")
}

// ErrAnswer wraps a failure of the language-model backend.
func ErrAnswer(cause error) *Error {
	return newError(StageAnswer, KindAnswerFailed, cause, "answer generation failed")
}

// ErrEmptyText reports empty text reaching the synthesis stage.
func ErrEmptyText() *Error {
	return newError(StageSynthesis, KindEmptyText, nil, "synthesis text is empty")
}

// ErrSynthesis wraps a failure of the text-to-speech backend.
func ErrSynthesis(cause error) *Error {
	return newError(StageSynthesis, KindSynthesisFailed, cause, "speech synthesis failed")
}

// AsStageError normalizes err into a *Error for the given stage; adapter
// errors that already carry a stage pass through unchanged.
func AsStageError(stage Stage, err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	switch stage {
	case StageTranscription:
		return ErrTranscription(err)
	case StageAnswer:
		return ErrAnswer(err)
	default:
		return ErrSynthesis(err)
	}
}
