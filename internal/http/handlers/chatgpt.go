package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/askhub/internal/config"
	"github.com/geocoder89/askhub/internal/llm"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ChatGPTHandler struct {
	llm Completer
}

func NewChatGPTHandler(completer Completer) *ChatGPTHandler {
	return &ChatGPTHandler{llm: completer}
}

type askGPTRequest struct {
	Question string `json:"question" binding:"required,max=8000"`
}

func (h *ChatGPTHandler) Ask(ctx *gin.Context) {
	var req askGPTRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// completions are slow, give the upstream call room
	cctx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	out, err := h.llm.Complete(cctx, req.Question)

	if err != nil {
		if errors.Is(err, llm.ErrQuotaExceeded) {
			RespondError(ctx, http.StatusTooManyRequests, "quota_exceeded",
				"Upstream quota exceeded. Check your plan and billing.", nil)
			return
		}

		slog.Error("completion failed", "err", err)
		RespondError(ctx, http.StatusInternalServerError, "llm_error", err.Error(), nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"answer": out,
	})
}
