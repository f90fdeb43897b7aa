package speech

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/config"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

// GeminiSynthesizer converts answer text to speech with the Gemini TTS
// model and a fixed prebuilt voice.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer creates the synthesis adapter.
func NewGeminiSynthesizer(ctx context.Context, cfg config.SpeechConfig) (*GeminiSynthesizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSynthesizer{
		client: client,
		model:  cfg.TTSModel,
		voice:  cfg.TTSVoice,
	}, nil
}

// Synthesize renders text as spoken audio. The voice is fixed configuration,
// not a per-turn choice. Raw PCM responses are framed into a WAV container.
func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*turn.AnswerAudio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, turn.ErrEmptyText()
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: s.voice,
				},
			},
		},
	}

	var (
		audio    bytes.Buffer
		mimeType string
	)

	for chunk, err := range s.client.Models.GenerateContentStream(ctx, s.model, genai.Text(text), cfg) {
		if err != nil {
			return nil, turn.ErrSynthesis(err)
		}
		if len(chunk.Candidates) == 0 || chunk.Candidates[0].Content == nil {
			continue
		}
		for _, part := range chunk.Candidates[0].Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			if mimeType == "" {
				mimeType = part.InlineData.MIMEType
			}
			audio.Write(part.InlineData.Data)
		}
	}

	if audio.Len() == 0 {
		return nil, turn.ErrSynthesis(fmt.Errorf("no audio data received from model %s", s.model))
	}

	data := audio.Bytes()
	format := "wav"
	if !isWAVMIME(mimeType) {
		data = pcmToWAV(data, parsePCMMIME(mimeType))
		mimeType = "audio/wav"
	}

	log.Printf("[tts] synthesized %d chars into %d bytes (voice=%s)", len(text), len(data), s.voice)

	return &turn.AnswerAudio{
		Data:     data,
		Format:   format,
		MIMEType: mimeType,
	}, nil
}
