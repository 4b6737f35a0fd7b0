package creations

import (
	"errors"
	"time"
)

// Creation types.
const (
	TypeArticle = "article"
	TypeTitle   = "title"
	TypeImage   = "image"
	TypeReview  = "review"
)

// ErrInvalidInput indicates a creation is missing required fields.
var ErrInvalidInput = errors.New("invalid input")

// Creation is one persisted AI output. Creations are append-only.
type Creation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Publish   bool      `json:"publish"`
	CreatedAt time.Time `json:"created_at"`
}

func validType(t string) bool {
	switch t {
	case TypeArticle, TypeTitle, TypeImage, TypeReview:
		return true
	}
	return false
}
