package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"music-chat-pipeline/internal/ai"
	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/pipeline"
	"music-chat-pipeline/internal/store"
)

func newTestHandlers(t *testing.T, replies ...string) (*Handlers, *store.DB) {
	t.Helper()
	db, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := model.DefaultPipelineConfig()
	cfg.ModelRetry = model.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond}
	cfg.ExecutionRetry = model.RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond}

	pipe := pipeline.New(ai.NewMockClient(replies...), db, db, db, cfg, nil)
	return New(pipe, db, cfg, nil), db
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload)))
	return rec
}

func TestProcessQuestionAssignsSessionAndSavesTurns(t *testing.T) {
	h, db := newTestHandlers(t, "VALIDA", "SELECT name FROM artists")

	rec := postJSON(t, h.ProcessQuestion, "/api/v1/chat/process",
		QuestionRequest{Question: "lista de artistas"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.NotEmpty(t, result.SessionID, "a session ID is assigned when the client sends none")

	turns, err := db.GetTurns(context.Background(), result.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, model.RoleUser, turns[0].Role)
	require.Equal(t, "lista de artistas", turns[0].Text)
	require.Equal(t, model.RoleAssistant, turns[1].Role)
}

func TestProcessQuestionRejectsEmptyQuestion(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.ProcessQuestion, "/api/v1/chat/process", QuestionRequest{Question: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateQuestionEndpoint(t *testing.T) {
	h, _ := newTestHandlers(t, "FUERA_CONTEXTO")

	rec := postJSON(t, h.ValidateQuestion, "/api/v1/chat/validate",
		QuestionRequest{Question: "¿Cómo preparo una receta de paella?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.StageResult[model.ValidationOutcome]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, model.StatusOutOfDomain, res.Value.Status)
}

func TestGenerateSQLEndpoint(t *testing.T) {
	h, _ := newTestHandlers(t, "```sql\nSELECT name FROM artists\n```")

	rec := postJSON(t, h.GenerateSQL, "/api/v1/chat/sql",
		QuestionRequest{Question: "lista de artistas"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.StageResult[model.SQLGenerationOutcome]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.Success)
	require.Equal(t, "SELECT name FROM artists", res.Value.SQL)
}

func TestGenerateResponseEndpoint(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.GenerateResponse, "/api/v1/chat/response",
		SynthesisRequest{Question: "artistas", Results: `[{"name":"Bad Bunny"}]`})
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.StageResult[model.NaturalResponseOutcome]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.Success)
	require.NotEmpty(t, res.Value.Text)
}

func TestTermsEndpoints(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postJSON(t, h.CreateTerm, "/api/v1/excluded-terms",
		model.CreateExcludedTermRequest{OwnerID: "u1", Term: "Bad Bunny", Category: "artista"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.ExcludedTerm
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	h.ListTerms(rec, httptest.NewRequest(http.MethodGet, "/api/v1/excluded-terms?ownerId=u1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var terms []model.ExcludedTerm
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &terms))
	require.Len(t, terms, 1)

	inactive := false
	payload, _ := json.Marshal(model.UpdateExcludedTermRequest{IsActive: &inactive})
	rec = httptest.NewRecorder()
	h.UpdateTerm(rec, httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/excluded-terms/%d", created.ID), bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListTerms(rec, httptest.NewRequest(http.MethodGet, "/api/v1/excluded-terms?ownerId=u1&active=true", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &terms))
	require.Empty(t, terms)

	rec = httptest.NewRecorder()
	h.DeleteTerm(rec, httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/excluded-terms/%d", created.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.DeleteTerm(rec, httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/excluded-terms/%d", created.ID), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTermsEndpointMissingOwner(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ListTerms(rec, httptest.NewRequest(http.MethodGet, "/api/v1/excluded-terms", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConversationEndpoints(t *testing.T) {
	h, db := newTestHandlers(t)
	ctx := context.Background()

	_, err := db.SaveTurn(ctx, "s1", "u1", model.RoleUser, "¿Quién es Bad Bunny?")
	require.NoError(t, err)
	_, err = db.SaveTurn(ctx, "s1", "u1", model.RoleAssistant, "Un artista.")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ListConversations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []model.ConversationSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	require.Equal(t, 2, sessions[0].TurnCount)

	rec = httptest.NewRecorder()
	h.GetConversation(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/s1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var turns []model.ConversationTurn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turns))
	require.Len(t, turns, 2)

	rec = httptest.NewRecorder()
	h.SearchConversations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/search?q=Bunny", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var hits []model.SearchHit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	require.Len(t, hits, 1)

	rec = httptest.NewRecorder()
	h.DeleteConversation(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/conversations/s1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.DeleteConversation(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/conversations/s1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
