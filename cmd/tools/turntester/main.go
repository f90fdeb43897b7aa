// Command turntester exercises the pipeline adapters against the live
// remote services, one stage or a whole turn at a time.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/config"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/service/ai"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/service/speech"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/service/tutor"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment: %v", err)
	}

	mode := flag.String("mode", "", "test mode: asr, answer, tts or turn")
	audioPath := flag.String("audio", "", "input audio file (asr/turn modes)")
	text := flag.String("text", "", "input text (answer/tts modes)")
	outputPath := flag.String("out", "", "output audio file (tts/turn modes, default answer.wav)")
	timeout := flag.Duration("timeout", 90*time.Second, "overall timeout")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *mode {
	case "asr":
		runASR(ctx, cfg, *audioPath)
	case "answer":
		runAnswer(ctx, cfg, *text)
	case "tts":
		runTTS(ctx, cfg, *text, *outputPath)
	case "turn":
		runTurn(ctx, cfg, *audioPath, *outputPath)
	default:
		flag.Usage()
		log.Fatal("specify -mode=asr, -mode=answer, -mode=tts or -mode=turn")
	}
}

func loadClip(audioPath string) *turn.AudioClip {
	if audioPath == "" {
		log.Fatal("this mode needs -audio with an input file path")
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		log.Fatalf("failed to read audio file: %v", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(audioPath)), ".")
	if format == "" {
		format = "wav"
	}

	return &turn.AudioClip{Data: data, Format: format}
}

func runASR(ctx context.Context, cfg *config.Config, audioPath string) {
	clip := loadClip(audioPath)
	transcriber := speech.NewWhisperTranscriber(cfg.Speech)

	transcript, err := transcriber.Transcribe(ctx, clip)
	if err != nil {
		log.Fatalf("transcription failed: %v", err)
	}
	fmt.Printf("transcript: %s\n", transcript)
}

func runAnswer(ctx context.Context, cfg *config.Config, text string) {
	if text == "" {
		log.Fatal("answer mode needs -text with a question")
	}

	svc, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize answer service: %v", err)
	}

	answer, err := svc.Answer(ctx, text)
	if err != nil {
		log.Fatalf("answer generation failed: %v", err)
	}
	fmt.Printf("answer: %s\n", answer)
}

func runTTS(ctx context.Context, cfg *config.Config, text, outputPath string) {
	if text == "" {
		log.Fatal("tts mode needs -text with the text to speak")
	}

	synthesizer, err := speech.NewGeminiSynthesizer(ctx, cfg.Speech)
	if err != nil {
		log.Fatalf("failed to initialize synthesizer: %v", err)
	}

	audio, err := synthesizer.Synthesize(ctx, text)
	if err != nil {
		log.Fatalf("synthesis failed: %v", err)
	}

	writeAudio(audio, outputPath)
}

func runTurn(ctx context.Context, cfg *config.Config, audioPath, outputPath string) {
	clip := loadClip(audioPath)

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize answer service: %v", err)
	}
	synthesizer, err := speech.NewGeminiSynthesizer(ctx, cfg.Speech)
	if err != nil {
		log.Fatalf("failed to initialize synthesizer: %v", err)
	}

	svc := tutor.NewService(
		speech.NewWhisperTranscriber(cfg.Speech),
		aiService,
		synthesizer,
		time.Duration(cfg.Speech.Timeout)*time.Second,
	)

	result := svc.HandleTurnObserved(ctx, clip, func(stage turn.Stage) {
		log.Printf("stage started: %s", stage)
	})

	fmt.Printf("turn %s (%dms)\n", result.TurnID, result.Elapsed)
	if result.Transcript != "" {
		fmt.Printf("transcript: %s\n", result.Transcript)
	}
	if result.AnswerText != "" {
		fmt.Printf("answer: %s\n", result.AnswerText)
	}
	if result.Err != nil {
		fmt.Printf("error: %v (fatal=%t)\n", result.Err, result.Err.Fatal())
	}
	if result.Audio != nil {
		writeAudio(result.Audio, outputPath)
	}
}

func writeAudio(audio *turn.AnswerAudio, outputPath string) {
	if outputPath == "" {
		outputPath = "answer." + audio.Format
	}
	if err := os.WriteFile(outputPath, audio.Data, 0o644); err != nil {
		log.Fatalf("failed to write audio file: %v", err)
	}
	fmt.Printf("audio written to %s (%d bytes, %s)\n", outputPath, len(audio.Data), audio.MIMEType)
}
