package config

import (
	"strings"
	"testing"
)

func TestLoadServerConfig(t *testing.T) {
	cases := []struct {
		name    string
		port    string
		want    string
		wantErr bool
	}{
		{name: "default", port: "", want: ":8080"},
		{name: "bare port", port: "9000", want: ":9000"},
		{name: "addr form", port: "127.0.0.1:9000", want: "127.0.0.1:9000"},
		{name: "colon form", port: ":9000", want: ":9000"},
		{name: "garbage", port: "90 00", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PORT", tc.port)
			got, err := loadServerConfig()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for PORT=%q", tc.port)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadServerConfig err: %v", err)
			}
			if got.Addr != tc.want {
				t.Fatalf("Addr = %q, want %q", got.Addr, tc.want)
			}
		})
	}
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load should fail without GEMINI_API_KEY")
	} else if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("error should name the missing variable, got: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.AI.GeminiModel != "gemini-2.5-flash-lite" {
		t.Errorf("GeminiModel = %q", cfg.AI.GeminiModel)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Errorf("Temperature = %v", cfg.AI.Temperature)
	}
	if cfg.AI.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d", cfg.AI.MaxTokens)
	}
	if cfg.Speech.TTSVoice != "Zephyr" {
		t.Errorf("TTSVoice = %q", cfg.Speech.TTSVoice)
	}
	if cfg.Speech.Language != "id" {
		t.Errorf("Language = %q", cfg.Speech.Language)
	}
	if cfg.Speech.GeminiAPIKey != "test-key" {
		t.Errorf("speech config should share the Gemini credential")
	}
	if cfg.AI.UseArk() {
		t.Errorf("UseArk should be false without Ark credentials")
	}
}

func TestUseArk(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ARK_MODEL", "doubao-pro")
	t.Setenv("ARK_API_KEY", "ark-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.AI.UseArk() {
		t.Fatal("UseArk should be true with model and API key")
	}
}

func TestResolveASRModel(t *testing.T) {
	cases := []struct {
		name       string
		model      string
		token      string
		want       string
		downgraded bool
	}{
		{name: "empty model", model: "", want: DefaultASRModel},
		{name: "public model", model: "whisper-1", want: "whisper-1"},
		{name: "registry model with token", model: "conevonce/whisper-small-id3", token: "hf_x", want: "conevonce/whisper-small-id3"},
		{name: "registry model without token", model: "conevonce/whisper-small-id3", want: DefaultASRModel, downgraded: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := SpeechConfig{WhisperModel: tc.model, RegistryToken: tc.token}
			got, downgraded := cfg.ResolveASRModel()
			if got != tc.want || downgraded != tc.downgraded {
				t.Fatalf("ResolveASRModel() = (%q, %t), want (%q, %t)", got, downgraded, tc.want, tc.downgraded)
			}
		})
	}
}
