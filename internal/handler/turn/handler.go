package turn

import (
	"context"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	turnmodel "github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
	"github.com/Shianndri-Zanniko/Ai-tutor/internal/service/tutor"
	"github.com/Shianndri-Zanniko/Ai-tutor/pkg/utils"
)

// TurnService abstracts the orchestrator for testing.
type TurnService interface {
	HandleTurn(ctx context.Context, clip *turnmodel.AudioClip) *turnmodel.Result
	HandleTurnObserved(ctx context.Context, clip *turnmodel.AudioClip, observe tutor.StageObserver) *turnmodel.Result
}

// Handler serves the turn endpoints.
type Handler struct {
	svc TurnService
}

// New creates the turn handler.
func New(svc TurnService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the turn endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/turn", h.handleTurn)
	r.Get("/health", h.handleHealth)

	wsHandler := NewWebSocketHandler(h.svc)
	wsHandler.RegisterRoutes(r)
}

// turnResponse is the wire shape of a turn result. Audio travels as base64
// (encoding/json handles []byte that way) so one JSON body carries the
// whole outcome.
type turnResponse struct {
	TurnID      string           `json:"turnId"`
	Transcript  string           `json:"transcript,omitempty"`
	AnswerText  string           `json:"answerText,omitempty"`
	AnswerAudio []byte           `json:"answerAudio,omitempty"`
	AudioFormat string           `json:"audioFormat,omitempty"`
	Error       *turnmodel.Error `json:"error,omitempty"`
	Partial     bool             `json:"partial,omitempty"`
	ElapsedMs   int64            `json:"elapsedMs"`
}

func toResponse(result *turnmodel.Result) *turnResponse {
	resp := &turnResponse{
		TurnID:     result.TurnID,
		Transcript: result.Transcript,
		AnswerText: result.AnswerText,
		Error:      result.Err,
		Partial:    result.Partial(),
		ElapsedMs:  result.Elapsed,
	}
	if result.Audio != nil {
		resp.AnswerAudio = result.Audio.Data
		resp.AudioFormat = result.Audio.Format
	}
	return resp
}

// handleTurn accepts one recorded question as multipart form data and
// responds with the structured turn result. Stage failures are part of the
// result body, never a bare 5xx: the UI must always have fields to render.
func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}

	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	clip := &turnmodel.AudioClip{
		Data:   data,
		Format: inferAudioFormat(header.Filename),
	}

	result := h.svc.HandleTurn(r.Context(), clip)
	if result.Err != nil {
		log.Printf("[turn] %s stage=%s kind=%s", result.TurnID, result.Err.Stage, result.Err.Kind)
	}

	utils.RespondJSON(w, http.StatusOK, toResponse(result))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "tutor",
	})
}

// inferAudioFormat maps the upload filename to a container format.
func inferAudioFormat(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp3":
		return "mp3"
	case ".wav":
		return "wav"
	case ".webm":
		return "webm"
	case ".m4a":
		return "m4a"
	case ".ogg":
		return "ogg"
	case ".flac":
		return "flac"
	default:
		return "wav"
	}
}
