package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"music-chat-pipeline/internal/model"
)

// QuestionRequest is the shared payload of the chat endpoints.
type QuestionRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// SynthesisRequest is the payload of the response-synthesis endpoint.
type SynthesisRequest struct {
	Question string `json:"question"`
	Results  string `json:"results"`
	Tone     string `json:"tone,omitempty"`
	Length   string `json:"length,omitempty"`
}

func decodeQuestion(w http.ResponseWriter, r *http.Request) (QuestionRequest, bool) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return req, false
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return req, false
	}
	return req, true
}

// ProcessQuestion runs the full conversational pipeline
// @Summary Process a question
// @Description Contextualize, validate, generate SQL, execute it and synthesize a natural-language answer
// @Tags chat
// @Accept json
// @Produce json
// @Param request body handler.QuestionRequest true "Question with optional session and user"
// @Success 200 {object} model.PipelineResult "Pipeline result"
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Router /chat/process [post]
func (h *Handlers) ProcessQuestion(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuestion(w, r)
	if !ok {
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	result := h.pipe.Process(r.Context(), req.SessionID, req.UserID, req.Question)
	result.SessionID = req.SessionID

	if result.Success {
		if _, err := h.db.SaveTurn(r.Context(), req.SessionID, req.UserID, model.RoleUser, req.Question); err != nil {
			h.log.Warn("save user turn failed", zap.Error(err))
		}
		if _, err := h.db.SaveTurn(r.Context(), req.SessionID, req.UserID, model.RoleAssistant, result.NaturalResponse); err != nil {
			h.log.Warn("save assistant turn failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// ContextualizeQuestion rewrites a follow-up into a standalone question
// @Summary Contextualize a question
// @Description Resolve pronouns and references against the session history
// @Tags chat
// @Accept json
// @Produce json
// @Param request body handler.QuestionRequest true "Question with session"
// @Success 200 {object} model.StageResult[model.ContextualizationOutcome] "Contextualization result"
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Router /chat/contextualize [post]
func (h *Handlers) ContextualizeQuestion(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	var history []model.ConversationTurn
	if req.SessionID != "" {
		turns, err := h.db.GetRecentTurns(r.Context(), req.SessionID, h.cfg.HistoryLimit)
		if err != nil {
			h.log.Warn("history fetch failed", zap.Error(err))
		} else {
			history = turns
		}
	}

	result := h.pipe.Contextualizer().Contextualize(r.Context(), req.Question, history)
	writeJSON(w, http.StatusOK, result)
}

// ValidateQuestion classifies a question without running the pipeline
// @Summary Validate a question
// @Description Check whether a question belongs to the music domain
// @Tags chat
// @Accept json
// @Produce json
// @Param request body handler.QuestionRequest true "Question"
// @Success 200 {object} model.StageResult[model.ValidationOutcome] "Validation result"
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Router /chat/validate [post]
func (h *Handlers) ValidateQuestion(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuestion(w, r)
	if !ok {
		return
	}
	result := h.pipe.Validator().Validate(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, result)
}

// GenerateSQL translates a question into SQL without executing it
// @Summary Generate SQL
// @Description Generate and analyze the SQL for a music question
// @Tags chat
// @Accept json
// @Produce json
// @Param request body handler.QuestionRequest true "Question"
// @Success 200 {object} model.StageResult[model.SQLGenerationOutcome] "Generated SQL with analysis"
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Router /chat/sql [post]
func (h *Handlers) GenerateSQL(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuestion(w, r)
	if !ok {
		return
	}
	result := h.pipe.Generator().Generate(r.Context(), req.Question, h.cfg.ResultLimit)
	writeJSON(w, http.StatusOK, result)
}

// GenerateResponse synthesizes a natural-language answer from raw results
// @Summary Synthesize a response
// @Description Turn raw database results into a conversational answer
// @Tags chat
// @Accept json
// @Produce json
// @Param request body handler.SynthesisRequest true "Question and raw results"
// @Success 200 {object} model.StageResult[model.NaturalResponseOutcome] "Synthesized response"
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Router /chat/response [post]
func (h *Handlers) GenerateResponse(w http.ResponseWriter, r *http.Request) {
	var req SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}
	if req.Tone == "" {
		req.Tone = h.cfg.Tone
	}
	if req.Length == "" {
		req.Length = h.cfg.Length
	}
	result := h.pipe.Synthesizer().Synthesize(req.Question, req.Results, req.Tone, req.Length)
	writeJSON(w, http.StatusOK, result)
}
