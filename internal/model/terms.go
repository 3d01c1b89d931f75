package model

import "time"

// ExcludedTerm is a word or name a user never wants to see in answers.
// Category groups terms for the redaction prompt (artist, genre, keyword...).
type ExcludedTerm struct {
	ID        int64      `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Term      string     `json:"term"`
	Category  string     `json:"category"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CreateExcludedTermRequest is the payload for registering a new term.
type CreateExcludedTermRequest struct {
	OwnerID  string `json:"ownerId"`
	Term     string `json:"term"`
	Category string `json:"category"`
}

// UpdateExcludedTermRequest is the payload for editing an existing term.
type UpdateExcludedTermRequest struct {
	Term     string `json:"term,omitempty"`
	Category string `json:"category,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}
