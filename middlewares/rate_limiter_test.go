package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestStrictRateLimiterIsPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", NewStrictRateLimiter(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(ip string) int {
		req, _ := http.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":51000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 5; i++ {
		if code := hit("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("attempt %d from first client: got %d", i+1, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("sixth attempt must be throttled, got %d", code)
	}

	// One client burning its budget must not lock out another.
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("second client throttled by the first one's budget: got %d", code)
	}
}
