package question

import (
	"errors"
	"time"
)

type Question struct {
	ID          string    `json:"questionid"`
	UserID      string    `json:"userid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WithAuthor is the read model for list/get: the question plus the owner's
// username from the users join.
type WithAuthor struct {
	Question
	Username string `json:"username"`
}

var ErrNotFound = errors.New("question not found")

type AskRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
	Tag         string `json:"tag" binding:"omitempty,max=50"`
}

type EditRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
}
