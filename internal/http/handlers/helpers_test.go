package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/askhub/internal/auth"
	"github.com/geocoder89/askhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the tests

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWT() *auth.Manager {
	return auth.NewManager("test-secret-key", time.Hour)
}

// setupRouter mounts one handler per test.

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// setupAuthedRouter mounts the handler behind the real auth middleware so
// identity comes from a token like it does in production.

func setupAuthedRouter(method, path string, mgr *auth.Manager, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	mw := middlewares.NewAuthMiddleware(mgr)

	r.Handle(method, path, mw.RequireAuth(), h)

	return r
}

func bearerToken(t *testing.T, mgr *auth.Manager, userID, username string) string {
	t.Helper()

	token, err := mgr.GenerateToken(userID, username)

	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return "Bearer " + token
}

func doRequest(router http.Handler, method, path, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}
