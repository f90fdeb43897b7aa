package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	// Rejected before the client is ever touched.
	synthesizer := &GeminiSynthesizer{}

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := synthesizer.Synthesize(context.Background(), text)
		var se *turn.Error
		if !errors.As(err, &se) {
			t.Fatalf("text %q: expected *turn.Error, got %v", text, err)
		}
		if se.Kind != turn.KindEmptyText || se.Stage != turn.StageSynthesis {
			t.Fatalf("text %q: got %s/%s, want %s/%s", text, se.Stage, se.Kind, turn.StageSynthesis, turn.KindEmptyText)
		}
	}
}
