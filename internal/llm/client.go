package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/askhub/internal/observability"
	openai "github.com/sashabaranov/go-openai"
)

// ErrQuotaExceeded marks upstream quota exhaustion so the handler can map
// it to 429 instead of a generic failure.
var ErrQuotaExceeded = errors.New("upstream quota exceeded")

// Completer is the seam the handler and the cache wrapper share.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	api   *openai.Client
	model string
	prom  *observability.Prom
}

// prom may be nil (tests); calls then run unobserved.
func NewClient(apiKey, model string, prom *observability.Prom) *Client {
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
		prom:  prom,
	}
}

// Complete forwards the prompt as a single user-role message and returns
// the first choice's text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var out string

	call := func() error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		})

		if err != nil {
			return classifyErr(err)
		}

		if len(resp.Choices) == 0 {
			return errors.New("upstream returned no choices")
		}

		out = resp.Choices[0].Message.Content

		return nil
	}

	var err error

	if c.prom != nil {
		err = c.prom.ObserveLLM(resultLabel, call)
	} else {
		err = call()
	}

	if err != nil {
		return "", err
	}

	return out, nil
}

func classifyErr(err error) error {
	var apiErr *openai.APIError

	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ErrQuotaExceeded
		}

		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return ErrQuotaExceeded
		}
	}

	return err
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota"
	default:
		return "error"
	}
}
