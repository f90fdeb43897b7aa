package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/config"
)

// geminiChatModel adapts the Gemini API to eino's model.ChatModel so the
// answer chain composes the same way regardless of provider.
type geminiChatModel struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
}

var _ model.ChatModel = (*geminiChatModel)(nil)

func newGeminiChatModel(ctx context.Context, cfg config.AIConfig) (model.ChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiChatModel{
		client:      client,
		model:       cfg.GeminiModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Generate runs one non-streaming completion.
func (m *geminiChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	cfg, contents, err := m.convert(input)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, cfg)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	return schema.AssistantMessage(sb.String(), nil), nil
}

// Stream runs a streaming completion, emitting one message chunk per text
// delta from the model.
func (m *geminiChatModel) Stream(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	cfg, contents, err := m.convert(input)
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[*schema.Message](8)

	go func() {
		defer sw.Close()
		for chunk, err := range m.client.Models.GenerateContentStream(ctx, m.model, contents, cfg) {
			if err != nil {
				sw.Send(nil, err)
				return
			}
			if len(chunk.Candidates) == 0 || chunk.Candidates[0].Content == nil {
				continue
			}
			var sb strings.Builder
			for _, part := range chunk.Candidates[0].Content.Parts {
				if part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			if sb.Len() == 0 {
				continue
			}
			if closed := sw.Send(schema.AssistantMessage(sb.String(), nil), nil); closed {
				return
			}
		}
	}()

	return sr, nil
}

// BindTools satisfies model.ChatModel; the tutor never binds tools.
func (m *geminiChatModel) BindTools([]*schema.ToolInfo) error {
	return fmt.Errorf("tool binding is not supported by the gemini chat model")
}

// convert maps eino messages onto Gemini contents. System messages become
// the system instruction; user and assistant turns keep their order.
func (m *geminiChatModel) convert(input []*schema.Message) (*genai.GenerateContentConfig, []*genai.Content, error) {
	temperature := m.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(m.maxTokens),
	}

	var (
		systemParts []*genai.Part
		contents    []*genai.Content
	)

	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			systemParts = append(systemParts, genai.NewPartFromText(msg.Content))
		case schema.User:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		case schema.Assistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		default:
			return nil, nil, fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}

	if len(systemParts) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: systemParts}
	}
	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("no user content to send")
	}

	return cfg, contents, nil
}
