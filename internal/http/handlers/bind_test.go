package handlers_test

import (
	"net/http"
	"testing"

	"github.com/geocoder89/askhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindProbe struct {
	Email string `json:"email" binding:"required,email"`
	Count int    `json:"count" binding:"required,min=1"`
}

func bindRouter() *gin.Engine {
	r := gin.New()

	r.POST("/probe", func(ctx *gin.Context) {
		var req bindProbe

		if !handlers.BindJSON(ctx, &req) {
			return
		}

		ctx.JSON(http.StatusOK, req)
	})

	return r
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "valid",
			body:           `{"email":"sam@example.com","count":2}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "validation_failure",
			body:           `{"email":"not-an-email","count":0}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "broken_json",
			body:           `{"email":`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "type_mismatch",
			body:           `{"email":"sam@example.com","count":"two"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	r := bindRouter()

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/probe", tt.body, "")

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
