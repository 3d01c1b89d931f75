package model

import "time"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one user/assistant exchange inside a session.
type ConversationTurn struct {
	Ordinal   int       `json:"ordinal"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationSession groups the turns recorded under one session ID.
type ConversationSession struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	TurnCount int       `json:"turnCount"`
}

// SearchHit is one history match for a free-text conversation search.
type SearchHit struct {
	SessionID string    `json:"sessionId"`
	Ordinal   int       `json:"ordinal"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
