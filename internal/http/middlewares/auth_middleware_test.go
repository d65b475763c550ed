package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/askhub/internal/auth"
	"github.com/geocoder89/askhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedEcho(mgr *auth.Manager) *gin.Engine {
	r := gin.New()
	mw := middlewares.NewAuthMiddleware(mgr)

	r.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		name, _ := middlewares.UsernameFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userid": id, "username": name})
	})

	return r
}

func get(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRequireAuth(t *testing.T) {
	mgr := auth.NewManager("test-secret-key", time.Hour)
	r := authedEcho(mgr)

	token, err := mgr.GenerateToken("u-1", "sam")

	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
	}{
		{
			name:           "valid_token",
			authHeader:     "Bearer " + token,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong_scheme",
			authHeader:     "Basic " + token,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty_bearer",
			authHeader:     "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "garbage_token",
			authHeader:     "Bearer not-a-jwt",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.authHeader)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireAuthPutsIdentityOnContext(t *testing.T) {
	mgr := auth.NewManager("test-secret-key", time.Hour)
	r := authedEcho(mgr)

	token, err := mgr.GenerateToken("u-7", "pat")

	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	w := get(r, "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()

	if !strings.Contains(body, `"userid":"u-7"`) || !strings.Contains(body, `"username":"pat"`) {
		t.Fatalf("identity missing from context, body=%s", body)
	}
}
