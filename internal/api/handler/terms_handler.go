package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"music-chat-pipeline/internal/model"
)

const termsPrefix = "/api/v1/excluded-terms/"

func termID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, termsPrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid term ID")
		return 0, false
	}
	return id, true
}

// CreateTerm registers an excluded term
// @Summary Create an excluded term
// @Description Register a word or name to redact from a user's answers
// @Tags excluded-terms
// @Accept json
// @Produce json
// @Param request body model.CreateExcludedTermRequest true "Term to exclude"
// @Success 201 {object} model.ExcludedTerm "Created term"
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Router /excluded-terms [post]
func (h *Handlers) CreateTerm(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExcludedTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		writeError(w, http.StatusBadRequest, "ownerId is required")
		return
	}

	term, err := h.db.CreateTerm(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, term)
}

// ListTerms lists the excluded terms of an owner
// @Summary List excluded terms
// @Description List all excluded terms of the given owner, active and inactive
// @Tags excluded-terms
// @Produce json
// @Param ownerId query string true "Owner ID"
// @Param active query bool false "Only active terms"
// @Success 200 {array} model.ExcludedTerm "Terms"
// @Failure 400 {object} map[string]string "Missing owner"
// @Router /excluded-terms [get]
func (h *Handlers) ListTerms(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "ownerId query parameter is required")
		return
	}

	var (
		terms []model.ExcludedTerm
		err   error
	)
	if r.URL.Query().Get("active") == "true" {
		terms, err = h.db.GetActiveTerms(r.Context(), ownerID)
	} else {
		terms, err = h.db.ListTerms(r.Context(), ownerID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch terms")
		return
	}
	if terms == nil {
		terms = []model.ExcludedTerm{}
	}
	writeJSON(w, http.StatusOK, terms)
}

// UpdateTerm edits an excluded term
// @Summary Update an excluded term
// @Description Change the text, category or active flag of a term
// @Tags excluded-terms
// @Accept json
// @Produce json
// @Param id path int true "Term ID"
// @Param request body model.UpdateExcludedTermRequest true "Fields to change"
// @Success 200 {object} model.ExcludedTerm "Updated term"
// @Failure 404 {object} map[string]string "Term not found"
// @Router /excluded-terms/{id} [put]
func (h *Handlers) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	var req model.UpdateExcludedTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	term, err := h.db.UpdateTerm(r.Context(), id, req)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Term not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update term")
		return
	}
	writeJSON(w, http.StatusOK, term)
}

// DeleteTerm removes an excluded term
// @Summary Delete an excluded term
// @Description Permanently remove a term
// @Tags excluded-terms
// @Produce json
// @Param id path int true "Term ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Term not found"
// @Router /excluded-terms/{id} [delete]
func (h *Handlers) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	id, ok := termID(w, r)
	if !ok {
		return
	}

	err := h.db.DeleteTerm(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Term not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete term")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Term deleted"})
}
