package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/config"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

func TestTranscribeRejectsEmptyClip(t *testing.T) {
	transcriber := NewWhisperTranscriber(config.SpeechConfig{})

	cases := []struct {
		name string
		clip *turn.AudioClip
	}{
		{name: "nil clip", clip: nil},
		{name: "empty data", clip: &turn.AudioClip{Format: "wav"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := transcriber.Transcribe(context.Background(), tc.clip)
			var se *turn.Error
			if !errors.As(err, &se) {
				t.Fatalf("expected *turn.Error, got %v", err)
			}
			if se.Kind != turn.KindInvalidAudio || se.Stage != turn.StageTranscription {
				t.Fatalf("got %s/%s, want %s/%s", se.Stage, se.Kind, turn.StageTranscription, turn.KindInvalidAudio)
			}
		})
	}
}

func TestTranscribeRejectsUndecodableFormat(t *testing.T) {
	transcriber := NewWhisperTranscriber(config.SpeechConfig{})

	clip := &turn.AudioClip{Data: []byte("not audio"), Format: "txt"}
	_, err := transcriber.Transcribe(context.Background(), clip)

	var se *turn.Error
	if !errors.As(err, &se) || se.Kind != turn.KindInvalidAudio {
		t.Fatalf("expected invalid_audio error, got %v", err)
	}
}

func TestTranscribeSuccess(t *testing.T) {
	var gotModel, gotLanguage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"  Apa itu fotosintesis?  "}`))
	}))
	defer srv.Close()

	transcriber := NewWhisperTranscriber(config.SpeechConfig{
		WhisperBaseURL: srv.URL,
		WhisperAPIKey:  "test-key",
		WhisperModel:   "whisper-1",
		Language:       "id",
	})

	clip := &turn.AudioClip{Data: []byte("fake webm bytes"), Format: "webm"}
	text, err := transcriber.Transcribe(context.Background(), clip)
	if err != nil {
		t.Fatalf("Transcribe err: %v", err)
	}
	if text != "Apa itu fotosintesis?" {
		t.Fatalf("transcript = %q", text)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model sent = %q", gotModel)
	}
	if gotLanguage != "id" {
		t.Errorf("language hint sent = %q, want id", gotLanguage)
	}
}

func TestTranscribeRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer srv.Close()

	transcriber := NewWhisperTranscriber(config.SpeechConfig{
		WhisperBaseURL: srv.URL,
		WhisperAPIKey:  "test-key",
	})

	clip := &turn.AudioClip{Data: []byte("fake audio"), Format: "wav"}
	_, err := transcriber.Transcribe(context.Background(), clip)

	var se *turn.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *turn.Error, got %v", err)
	}
	if se.Kind != turn.KindTranscriptionFailed || se.Stage != turn.StageTranscription {
		t.Fatalf("got %s/%s, want transcription failure", se.Stage, se.Kind)
	}
}

func TestTranscribeDowngradesRegistryModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(32 << 20)
		gotModel = r.FormValue("model")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"halo"}`))
	}))
	defer srv.Close()

	// Registry-scoped model without a token falls back to the public one.
	transcriber := NewWhisperTranscriber(config.SpeechConfig{
		WhisperBaseURL: srv.URL,
		WhisperAPIKey:  "test-key",
		WhisperModel:   "conevonce/whisper-small-id3",
	})

	clip := &turn.AudioClip{Data: []byte("fake audio"), Format: "wav"}
	if _, err := transcriber.Transcribe(context.Background(), clip); err != nil {
		t.Fatalf("Transcribe err: %v", err)
	}
	if gotModel != config.DefaultASRModel {
		t.Fatalf("model sent = %q, want %q", gotModel, config.DefaultASRModel)
	}
}
