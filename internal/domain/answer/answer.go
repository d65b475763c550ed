package answer

import (
	"errors"
	"time"
)

type Answer struct {
	ID         string    `json:"answerid"`
	UserID     string    `json:"userid"`
	QuestionID string    `json:"questionid"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"createdAt"`
}

type WithAuthor struct {
	Answer
	Username string `json:"username"`
}

var ErrNotFound = errors.New("answer not found")

type PostRequest struct {
	Answer string `json:"answer" binding:"required,max=10000"`
}
