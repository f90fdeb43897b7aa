package speech

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/config"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

// decodableFormats are the container formats the transcription endpoint
// accepts. Anything else is rejected before the network call.
var decodableFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"webm": true,
	"m4a":  true,
	"mp4":  true,
	"ogg":  true,
	"oga":  true,
	"flac": true,
}

// WhisperTranscriber converts recorded speech to text through an
// OpenAI-compatible Whisper endpoint.
type WhisperTranscriber struct {
	cfg config.SpeechConfig

	// The client is a process-wide handle: initialized once on first use,
	// never torn down, safe for concurrent reads.
	once   sync.Once
	client *openai.Client
	model  string
}

// NewWhisperTranscriber creates the transcription adapter. The remote client
// itself is built lazily on the first Transcribe call.
func NewWhisperTranscriber(cfg config.SpeechConfig) *WhisperTranscriber {
	return &WhisperTranscriber{cfg: cfg}
}

func (t *WhisperTranscriber) init() {
	model, downgraded := t.cfg.ResolveASRModel()
	if downgraded {
		log.Printf("[asr] model %q needs a registry token, falling back to %q", t.cfg.WhisperModel, model)
	}
	t.model = model

	apiKey := t.cfg.WhisperAPIKey
	if apiKey == "" {
		apiKey = t.cfg.RegistryToken
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if t.cfg.WhisperBaseURL != "" {
		clientCfg.BaseURL = t.cfg.WhisperBaseURL
	}
	t.client = openai.NewClientWithConfig(clientCfg)

	log.Printf("[asr] transcription client ready: model=%s endpoint=%s", t.model, clientCfg.BaseURL)
}

// Transcribe converts one audio clip to text with the configured language
// hint. Empty or undecodable input fails before any remote call.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, clip *turn.AudioClip) (string, error) {
	if clip == nil || len(clip.Data) == 0 {
		return "", turn.ErrInvalidAudio("audio clip is empty")
	}

	format := strings.ToLower(strings.TrimSpace(clip.Format))
	if format == "" {
		format = "wav"
	}
	if !decodableFormats[format] {
		return "", turn.ErrInvalidAudio(fmt.Sprintf("audio format %q is not decodable", clip.Format))
	}

	t.once.Do(t.init)

	req := openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(clip.Data),
		FilePath: "clip." + format,
		Language: t.cfg.Language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", turn.ErrTranscription(err)
	}

	text := strings.TrimSpace(resp.Text)
	log.Printf("[asr] transcribed %d bytes of %s audio into %d chars", len(clip.Data), format, len(text))
	return text, nil
}
