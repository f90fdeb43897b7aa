package tutor

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

// Transcriber converts recorded speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip *turn.AudioClip) (string, error)
}

// Answerer generates the tutor's answer for one question.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Synthesizer converts answer text to spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*turn.AnswerAudio, error)
}

// StageObserver is notified as each pipeline stage starts. Used by the
// presentation layer for live progress; may be nil.
type StageObserver func(stage turn.Stage)

// Service runs the turn pipeline: transcription, answer generation, speech
// synthesis, strictly in that order, each stage exactly once. It holds no
// state between turns; concurrent turns are independent.
type Service struct {
	transcriber Transcriber
	answerer    Answerer
	synthesizer Synthesizer
	timeout     time.Duration
}

// NewService wires the three adapters into an orchestrator. timeout bounds
// each adapter call; zero means no per-stage bound.
func NewService(transcriber Transcriber, answerer Answerer, synthesizer Synthesizer, timeout time.Duration) *Service {
	return &Service{
		transcriber: transcriber,
		answerer:    answerer,
		synthesizer: synthesizer,
		timeout:     timeout,
	}
}

// HandleTurn runs one complete turn. It never returns an error: every
// failure is folded into the result so the caller always has something to
// render.
func (s *Service) HandleTurn(ctx context.Context, clip *turn.AudioClip) *turn.Result {
	return s.HandleTurnObserved(ctx, clip, nil)
}

// HandleTurnObserved is HandleTurn with a per-stage progress callback.
func (s *Service) HandleTurnObserved(ctx context.Context, clip *turn.AudioClip, observe StageObserver) *turn.Result {
	started := time.Now()
	result := &turn.Result{
		TurnID:    uuid.NewString(),
		CreatedAt: started,
	}
	defer func() {
		result.Elapsed = time.Since(started).Milliseconds()
	}()

	notify := func(stage turn.Stage) {
		if observe != nil {
			observe(stage)
		}
	}

	notify(turn.StageTranscription)
	transcript, err := s.runTranscription(ctx, clip)
	if err != nil {
		result.Err = turn.AsStageError(turn.StageTranscription, err)
		log.Printf("[turn] %s aborted at transcription: %v", result.TurnID, err)
		return result
	}
	result.Transcript = transcript

	// An empty transcript (silence, no speech detected) is not an audio
	// decode failure; it fails the answer stage's input constraint below.
	notify(turn.StageAnswer)
	answer, err := s.runAnswer(ctx, transcript)
	if err != nil {
		result.Err = turn.AsStageError(turn.StageAnswer, err)
		log.Printf("[turn] %s aborted at answer: %v", result.TurnID, err)
		return result
	}
	result.AnswerText = answer

	notify(turn.StageSynthesis)
	audio, err := s.runSynthesis(ctx, answer)
	if err != nil {
		// Degraded, not failed: the text answer still stands.
		result.Err = turn.AsStageError(turn.StageSynthesis, err)
		log.Printf("[turn] %s degraded to text-only: %v", result.TurnID, err)
		return result
	}
	result.Audio = audio

	log.Printf("[turn] %s complete in %dms", result.TurnID, time.Since(started).Milliseconds())
	return result
}

func (s *Service) runTranscription(ctx context.Context, clip *turn.AudioClip) (string, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.transcriber.Transcribe(ctx, clip)
}

func (s *Service) runAnswer(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.answerer.Answer(ctx, transcript)
}

func (s *Service) runSynthesis(ctx context.Context, text string) (*turn.AnswerAudio, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	return s.synthesizer.Synthesize(ctx, text)
}

func (s *Service) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
