package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/askhub/internal/config"
	"github.com/geocoder89/askhub/internal/domain/answer"
	"github.com/geocoder89/askhub/internal/domain/question"
	"github.com/geocoder89/askhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnswerStore interface {
	Create(ctx context.Context, a answer.Answer) error
	ListByQuestion(ctx context.Context, questionID string) ([]answer.WithAuthor, error)
}

// QuestionFinder is the existence check answers need before touching the
// answers table.
type QuestionFinder interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type AnswersHandler struct {
	repo      AnswerStore
	questions QuestionFinder
}

func NewAnswersHandler(repo AnswerStore, questions QuestionFinder) *AnswersHandler {
	return &AnswersHandler{repo: repo, questions: questions}
}

func (h *AnswersHandler) Post(ctx *gin.Context) {
	questionID := ctx.Param("questionid")

	if uuid.Validate(questionID) != nil {
		RespondBadRequest(ctx, "question id must be a valid UUID", nil)
		return
	}

	var req answer.PostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	exists, err := h.questions.Exists(cctx, questionID)

	if err != nil {
		slog.Error("question existence check failed", "err", err)
		RespondInternal(ctx, "Could not post answer")
		return
	}

	if !exists {
		RespondNotFound(ctx, "Question not found with the provided ID")
		return
	}

	a := answer.Answer{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuestionID: questionID,
		Answer:     req.Answer,
		CreatedAt:  time.Now().UTC(),
	}

	err = h.repo.Create(cctx, a)

	if err != nil {
		// the question can be deleted after the existence check above;
		// the store reports that as question.ErrNotFound
		if errors.Is(err, question.ErrNotFound) {
			RespondNotFound(ctx, "Question not found with the provided ID")
			return
		}

		slog.Error("answer insert failed", "err", err)
		RespondInternal(ctx, "Could not save the answer")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"msg":    "Answer submitted successfully",
		"answer": a,
	})
}

func (h *AnswersHandler) ListForQuestion(ctx *gin.Context) {
	questionID := ctx.Query("questionid")

	if questionID == "" {
		RespondBadRequest(ctx, "Question ID query parameter is required", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	exists, err := h.questions.Exists(cctx, questionID)

	if err != nil {
		slog.Error("question existence check failed", "err", err)
		RespondInternal(ctx, "Could not list answers")
		return
	}

	// 404 only when the question itself is missing. A question with no
	// answers yet returns an empty array, consistent with the question
	// list endpoint.
	if !exists {
		RespondNotFound(ctx, "Question not found with the provided ID")
		return
	}

	answers, err := h.repo.ListByQuestion(cctx, questionID)

	if err != nil {
		slog.Error("answer list failed", "err", err)
		RespondInternal(ctx, "Could not list answers")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"answers": answers,
		"count":   len(answers),
	})
}
