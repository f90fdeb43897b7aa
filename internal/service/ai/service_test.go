package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

// stubChatModel records the messages it was invoked with and returns a
// canned response.
type stubChatModel struct {
	calls    int
	received []*schema.Message
	response *schema.Message
	err      error
}

var _ model.ChatModel = (*stubChatModel)(nil)

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *stubChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not used in tests")
}

func (m *stubChatModel) BindTools([]*schema.ToolInfo) error {
	return nil
}

func newTestService(t *testing.T, stub *stubChatModel) *Service {
	t.Helper()
	svc, err := newService(context.Background(), stub)
	if err != nil {
		t.Fatalf("newService err: %v", err)
	}
	return svc
}

func TestAnswerEmptyQuestion(t *testing.T) {
	stub := &stubChatModel{}
	svc := newTestService(t, stub)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := svc.Answer(context.Background(), question)
		var se *turn.Error
		if !errors.As(err, &se) || se.Kind != turn.KindEmptyQuery {
			t.Fatalf("question %q: expected empty_query error, got %v", question, err)
		}
	}

	if stub.calls != 0 {
		t.Fatalf("model invoked %d times for empty questions, want 0", stub.calls)
	}
}

func TestAnswerSuccess(t *testing.T) {
	stub := &stubChatModel{
		response: schema.AssistantMessage("Fotosintesis adalah cara tumbuhan membuat makanannya sendiri.", nil),
	}
	svc := newTestService(t, stub)

	answer, err := svc.Answer(context.Background(), "Apa itu fotosintesis?")
	if err != nil {
		t.Fatalf("Answer err: %v", err)
	}
	if answer != "Fotosintesis adalah cara tumbuhan membuat makanannya sendiri." {
		t.Fatalf("answer = %q", answer)
	}
	if stub.calls != 1 {
		t.Fatalf("model invoked %d times, want 1", stub.calls)
	}

	if len(stub.received) != 2 {
		t.Fatalf("model received %d messages, want 2", len(stub.received))
	}
	system, user := stub.received[0], stub.received[1]
	if system.Role != schema.System {
		t.Errorf("first message role = %s, want system", system.Role)
	}
	if !strings.Contains(system.Content, "Bahasa Indonesia") {
		t.Errorf("system prompt should pin the response language")
	}
	if user.Role != schema.User || user.Content != "Apa itu fotosintesis?" {
		t.Errorf("user message = %s/%q", user.Role, user.Content)
	}
}

func TestAnswerModelFailure(t *testing.T) {
	stub := &stubChatModel{err: errors.New("quota exceeded")}
	svc := newTestService(t, stub)

	_, err := svc.Answer(context.Background(), "Apa itu fotosintesis?")
	var se *turn.Error
	if !errors.As(err, &se) || se.Kind != turn.KindAnswerFailed {
		t.Fatalf("expected answer_failed error, got %v", err)
	}
}

func TestAnswerEmptyModelResponse(t *testing.T) {
	stub := &stubChatModel{response: schema.AssistantMessage("   ", nil)}
	svc := newTestService(t, stub)

	_, err := svc.Answer(context.Background(), "Apa itu fotosintesis?")
	var se *turn.Error
	if !errors.As(err, &se) || se.Kind != turn.KindAnswerFailed {
		t.Fatalf("expected answer_failed error for blank response, got %v", err)
	}
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt()
	for _, phrase := range []string{"sekolah dasar", "Bahasa Indonesia"} {
		if !strings.Contains(p, phrase) {
			t.Errorf("system prompt missing %q", phrase)
		}
	}
}
