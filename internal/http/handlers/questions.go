package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/askhub/internal/cache"
	"github.com/geocoder89/askhub/internal/config"
	"github.com/geocoder89/askhub/internal/domain/question"
	"github.com/geocoder89/askhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuestionStore interface {
	Create(ctx context.Context, q question.Question) error
	List(ctx context.Context) ([]question.WithAuthor, error)
	GetByID(ctx context.Context, id string) (question.WithAuthor, error)
	UpdateOwned(ctx context.Context, id, userID, title, description string) (bool, error)
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)
}

const listCacheKey = "questions:list"

type QuestionsHandler struct {
	repo      QuestionStore
	listCache *cache.Cache // may be nil
}

func NewQuestionsHandler(repo QuestionStore, listCache *cache.Cache) *QuestionsHandler {
	return &QuestionsHandler{repo: repo, listCache: listCache}
}

func (h *QuestionsHandler) Ask(ctx *gin.Context) {
	var req question.AskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	q := question.Question{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
		CreatedAt:   time.Now().UTC(),
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Create(cctx, q)

	if err != nil {
		slog.Error("question insert failed", "err", err)
		RespondInternal(ctx, "Could not post question")
		return
	}

	h.invalidateList()

	ctx.JSON(http.StatusCreated, gin.H{
		"msg":        "Question asked!",
		"questionid": q.ID,
	})
}

// List serves both the full feed and the ?questionid= single fetch from the
// same route.
func (h *QuestionsHandler) List(ctx *gin.Context) {
	if id := ctx.Query("questionid"); id != "" {
		h.getOne(ctx, id)
		return
	}

	if items, ok := h.cachedList(); ok {
		ctx.JSON(http.StatusOK, gin.H{
			"questions": items,
			"count":     len(items),
		})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, err := h.repo.List(cctx)

	if err != nil {
		slog.Error("question list failed", "err", err)
		RespondInternal(ctx, "Could not list questions")
		return
	}

	if h.listCache != nil {
		h.listCache.Set(listCacheKey, items)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"questions": items,
		"count":     len(items),
	})
}

// getOne yields an empty list with 200 for an unknown id; the caller treats
// empty as not-found.
func (h *QuestionsHandler) getOne(ctx *gin.Context, id string) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	q, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, question.ErrNotFound) {
			ctx.JSON(http.StatusOK, gin.H{
				"questions": []question.WithAuthor{},
			})
			return
		}

		slog.Error("question fetch failed", "err", err)
		RespondInternal(ctx, "Could not fetch question")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"questions": []question.WithAuthor{q},
	})
}

func (h *QuestionsHandler) Edit(ctx *gin.Context) {
	id := ctx.Param("questionid")

	var req question.EditRequest

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

	owned, err := h.repo.UpdateOwned(cctx, id, userID, req.Title, req.Description)

	if err != nil {
		slog.Error("question update failed", "err", err)
		RespondInternal(ctx, "Could not update question")
		return
	}

	if !owned {
		// also covers a question that does not exist at all
		RespondForbidden(ctx, "You can only edit your own question")
		return
	}

	h.invalidateList()

	ctx.JSON(http.StatusOK, gin.H{
		"msg": "Question updated",
	})
}

func (h *QuestionsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("questionid")

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	owned, err := h.repo.DeleteOwned(cctx, id, userID)

	if err != nil {
		slog.Error("question delete failed", "err", err)
		RespondInternal(ctx, "Could not delete question")
		return
	}

	if !owned {
		RespondForbidden(ctx, "You can only delete your own question")
		return
	}

	h.invalidateList()

	ctx.JSON(http.StatusOK, gin.H{
		"msg": "Question deleted",
	})
}

func (h *QuestionsHandler) cachedList() ([]question.WithAuthor, bool) {
	if h.listCache == nil {
		return nil, false
	}

	v, ok := h.listCache.Get(listCacheKey)

	if !ok {
		return nil, false
	}

	items, ok := v.([]question.WithAuthor)

	return items, ok
}

func (h *QuestionsHandler) invalidateList() {
	if h.listCache != nil {
		h.listCache.Delete(listCacheKey)
	}
}
