// Package api wires the chat endpoints onto the router.
package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"music-chat-pipeline/internal/api/handler"
	"music-chat-pipeline/pkg/router"

	_ "music-chat-pipeline/docs"
)

func RegisterRoutes(r *router.Router, h *handler.Handlers) {
	r.POST("/api/v1/chat/process", h.ProcessQuestion)
	r.POST("/api/v1/chat/contextualize", h.ContextualizeQuestion)
	r.POST("/api/v1/chat/validate", h.ValidateQuestion)
	r.POST("/api/v1/chat/sql", h.GenerateSQL)
	r.POST("/api/v1/chat/response", h.GenerateResponse)

	r.POST("/api/v1/excluded-terms", h.CreateTerm)
	r.GET("/api/v1/excluded-terms", h.ListTerms)
	r.PUT("/api/v1/excluded-terms/*", h.UpdateTerm)
	r.DELETE("/api/v1/excluded-terms/*", h.DeleteTerm)

	r.GET("/api/v1/conversations", h.ListConversations)
	// More specific routes first
	r.GET("/api/v1/conversations/search", h.SearchConversations)
	r.GET("/api/v1/conversations/*", h.GetConversation)
	r.DELETE("/api/v1/conversations/*", h.DeleteConversation)

	r.Mount("/swagger/*", httpSwagger.WrapHandler)
}
