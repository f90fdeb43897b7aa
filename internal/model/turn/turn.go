package turn

import "time"

// AudioClip is the raw recording of one question. Format is the container
// format inferred from the upload filename (wav, webm, ...).
type AudioClip struct {
	Data   []byte `json:"-"`
	Format string `json:"format"`
}

// AnswerAudio is the synthesized spoken answer.
type AnswerAudio struct {
	Data     []byte `json:"-"`
	Format   string `json:"format"`
	MIMEType string `json:"mimeType,omitempty"`
}

// Result is the structured outcome of one turn. Fields stay zero for stages
// that never ran; Err reports the stage that failed, if any.
type Result struct {
	TurnID     string       `json:"turnId"`
	Transcript string       `json:"transcript,omitempty"`
	AnswerText string       `json:"answerText,omitempty"`
	Audio      *AnswerAudio `json:"audio,omitempty"`
	Err        *Error       `json:"error,omitempty"`
	Elapsed    int64        `json:"elapsedMs"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Complete reports whether every stage produced output.
func (r *Result) Complete() bool {
	return r.Err == nil && r.Audio != nil
}

// Partial reports whether the turn degraded to a text-only answer
// (synthesis failed but transcript and answer text are present).
func (r *Result) Partial() bool {
	return r.Err != nil && !r.Err.Fatal() && r.AnswerText != ""
}
