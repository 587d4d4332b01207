package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func limitedRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(NewRateLimiter(rps, burst).Middleware())
	router.POST("/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return router
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	router := limitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/login", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, expected 200", i+1, w.Code)
		}
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	router := limitedRouter(0.001, 2)

	var last int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/login", nil)
		router.ServeHTTP(w, req)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, expected 429", last)
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/login", func(c *gin.Context) { c.Status(200) })

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":12345"
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("10.0.0.1"); code != 200 {
		t.Fatalf("first IP first request = %d", code)
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("first IP second request = %d, expected 429", code)
	}
	// A different client still has a full bucket.
	if code := send("10.0.0.2"); code != 200 {
		t.Errorf("second IP first request = %d, expected 200", code)
	}
}
