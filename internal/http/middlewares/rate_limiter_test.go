package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/askhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func limitedRouter(limit int, window time.Duration) *gin.Engine {
	r := gin.New()

	rl := middlewares.NewRateLimiter(limit, window)

	r.GET("/ping", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	return r
}

func ping(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)

	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	r := limitedRouter(2, time.Minute)

	for i := 0; i < 2; i++ {
		if w := ping(r, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	w := ping(r, "")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected a Retry-After header on the 429 response")
	}
}

func TestRateLimiterAdmitsAfterWindowReset(t *testing.T) {
	window := 30 * time.Millisecond
	r := limitedRouter(1, window)

	if w := ping(r, ""); w.Code != http.StatusOK {
		t.Fatalf("first request: got status %d, want %d", w.Code, http.StatusOK)
	}

	if w := ping(r, ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got status %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	time.Sleep(window + 20*time.Millisecond)

	if w := ping(r, ""); w.Code != http.StatusOK {
		t.Fatalf("after window reset: got status %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRateLimiterBudgetsArePerClient(t *testing.T) {
	r := limitedRouter(1, time.Minute)

	if w := ping(r, "192.0.2.10:1234"); w.Code != http.StatusOK {
		t.Fatalf("client A: got status %d, want %d", w.Code, http.StatusOK)
	}

	if w := ping(r, "192.0.2.10:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("client A over limit: got status %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// a different client keeps its own budget
	if w := ping(r, "198.51.100.7:1234"); w.Code != http.StatusOK {
		t.Fatalf("client B: got status %d, want %d", w.Code, http.StatusOK)
	}
}
