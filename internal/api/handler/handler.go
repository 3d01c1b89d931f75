// Package handler holds the HTTP handlers of the chat API.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/model"
	"music-chat-pipeline/internal/pipeline"
	"music-chat-pipeline/internal/store"
)

// Handlers bundles the pipeline and the stores the endpoints work against.
type Handlers struct {
	pipe *pipeline.Pipeline
	db   *store.DB
	cfg  model.PipelineConfig
	log  *zap.Logger
}

func New(pipe *pipeline.Pipeline, db *store.DB, cfg model.PipelineConfig, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{pipe: pipe, db: db, cfg: cfg, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
