package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"music-chat-pipeline/internal/model"
)

const conversationsPrefix = "/api/v1/conversations/"

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimPrefix(r.URL.Path, conversationsPrefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return "", false
	}
	return id, true
}

// ListConversations lists the recorded sessions
// @Summary List conversations
// @Description List all recorded sessions, most recently active first
// @Tags conversations
// @Produce json
// @Success 200 {array} model.ConversationSession "Sessions"
// @Router /conversations [get]
func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.db.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}
	if sessions == nil {
		sessions = []model.ConversationSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// GetConversation returns the turns of one session
// @Summary Get a conversation
// @Description Fetch the full turn history of a session in chronological order
// @Tags conversations
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} model.ConversationTurn "Turns"
// @Failure 400 {object} map[string]string "Missing session ID"
// @Router /conversations/{id} [get]
func (h *Handlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	turns, err := h.db.GetTurns(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch conversation")
		return
	}
	if turns == nil {
		turns = []model.ConversationTurn{}
	}
	writeJSON(w, http.StatusOK, turns)
}

// DeleteConversation removes a session and its turns
// @Summary Delete a conversation
// @Description Remove a session with its whole turn history
// @Tags conversations
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /conversations/{id} [delete]
func (h *Handlers) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	err := h.db.DeleteSession(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}

// SearchConversations searches turn text across all sessions
// @Summary Search conversations
// @Description Find turns whose text contains the query, newest first
// @Tags conversations
// @Produce json
// @Param q query string true "Text to search"
// @Param limit query int false "Maximum hits, default 20"
// @Success 200 {array} model.SearchHit "Matching turns"
// @Failure 400 {object} map[string]string "Missing query"
// @Router /conversations/search [get]
func (h *Handlers) SearchConversations(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hits, err := h.db.SearchTurns(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to search conversations")
		return
	}
	if hits == nil {
		hits = []model.SearchHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}
