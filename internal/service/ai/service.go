package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/config"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

// Service generates tutor answers: a fixed persona prompt plus the student's
// question, run through a compiled chat chain. One attempt per turn.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the answer service with the configured provider:
// Gemini by default, Ark when its credentials are present.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	var (
		chatModel model.ChatModel
		err       error
	)
	if cfg.UseArk() {
		chatModel, err = cfg.NewArkChatModel(ctx)
	} else {
		chatModel, err = newGeminiChatModel(ctx, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return newService(ctx, chatModel)
}

func newService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile answer chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Answer generates the tutor's response to one transcribed question.
// An empty question fails without touching the model.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", turn.ErrEmptyQuery()
	}

	input := map[string]any{
		"system": SystemPrompt(),
		"query":  question,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", turn.ErrAnswer(err)
	}

	answer := strings.TrimSpace(response.Content)
	if answer == "" {
		return "", turn.ErrAnswer(fmt.Errorf("model returned an empty answer"))
	}

	log.Printf("[ai] generated answer: question=%d chars, answer=%d chars", len(question), len(answer))
	return answer, nil
}

// ChatModel exposes the underlying model for tooling.
func (s *Service) ChatModel() model.ChatModel {
	return s.chatModel
}
