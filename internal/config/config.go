package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Speech SpeechConfig
}

// Load reads configuration from environment variables. A missing provider
// credential is a startup error, not something the pipeline deals with later.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig(ai.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Speech: speech}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the answer model. Gemini is the default provider and
// shares its credential with speech synthesis; Ark credentials switch the
// chat model only.
type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string

	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string

	Temperature float32
	MaxTokens   int
}

// UseArk reports whether Ark credentials override the default chat model.
func (c AIConfig) UseArk() bool {
	return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
}

// NewArkChatModel builds an Ark-backed chat model from the configuration.
func (c AIConfig) NewArkChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.UseArk() {
		return nil, fmt.Errorf("Ark credentials incomplete: need ARK_MODEL plus ARK_API_KEY or AK/SK")
	}

	temperature := c.Temperature
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.ArkModel,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if geminiKey == "" {
		return AIConfig{}, fmt.Errorf("GEMINI_API_KEY is required: it authenticates the answer model and speech synthesis")
	}

	temperature := float32(0.7)
	if t, err := parseOptionalFloat32Env("TUTOR_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if t != nil {
		temperature = *t
	}

	maxTokens := 1000
	if m, err := parseOptionalIntEnv("TUTOR_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if m != nil {
		maxTokens = *m
	}

	return AIConfig{
		GeminiAPIKey: geminiKey,
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		ArkAPIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	}, nil
}

// SpeechConfig describes both speech adapters: the Whisper transcription
// endpoint and the Gemini synthesis model.
type SpeechConfig struct {
	// ASR
	WhisperBaseURL string
	WhisperAPIKey  string
	WhisperModel   string
	Language       string
	RegistryToken  string

	// TTS
	GeminiAPIKey string
	TTSModel     string
	TTSVoice     string

	Timeout int // seconds, per adapter call
}

// DefaultASRModel is used when no model is configured or when a
// registry-scoped variant is configured without a registry token.
const DefaultASRModel = "whisper-1"

// ResolveASRModel returns the transcription model to use and whether the
// configured variant was downgraded. Registry-scoped names (owner/model)
// point at a private model registry and need REGISTRY_TOKEN to be usable.
func (c SpeechConfig) ResolveASRModel() (string, bool) {
	m := strings.TrimSpace(c.WhisperModel)
	if m == "" {
		return DefaultASRModel, false
	}
	if strings.Contains(m, "/") && c.RegistryToken == "" {
		return DefaultASRModel, true
	}
	return m, false
}

func loadSpeechConfig(geminiKey string) (SpeechConfig, error) {
	timeout := 60
	if t, err := parseOptionalIntEnv("SPEECH_TIMEOUT"); err != nil {
		return SpeechConfig{}, err
	} else if t != nil && *t > 0 {
		timeout = *t
	}

	whisperKey := strings.TrimSpace(os.Getenv("WHISPER_API_KEY"))
	if whisperKey == "" {
		whisperKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	registryToken := strings.TrimSpace(os.Getenv("REGISTRY_TOKEN"))
	if registryToken == "" {
		registryToken = strings.TrimSpace(os.Getenv("HF_TOKEN"))
	}

	return SpeechConfig{
		WhisperBaseURL: getEnvOrDefault("WHISPER_BASE_URL", "https://api.openai.com/v1"),
		WhisperAPIKey:  whisperKey,
		WhisperModel:   getEnvOrDefault("WHISPER_MODEL", DefaultASRModel),
		Language:       getEnvOrDefault("ASR_LANGUAGE", "id"),
		RegistryToken:  registryToken,
		GeminiAPIKey:   geminiKey,
		TTSModel:       getEnvOrDefault("TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		TTSVoice:       getEnvOrDefault("TTS_VOICE", "Zephyr"),
		Timeout:        timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloat32Env(key string) (*float32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	result := float32(val)
	return &result, nil
}
