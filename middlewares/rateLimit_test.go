package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPerMinute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/search", PerMinute(2, RouteClientKey), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/nearby", PerMinute(2, RouteClientKey), func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(path, ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = ip + ":1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("/search", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("/search", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("/search", "10.0.0.1"))

	// separate budget per route and per client
	assert.Equal(t, http.StatusOK, request("/nearby", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("/search", "10.0.0.2"))
}

func TestGetLimiterKeyedBySize(t *testing.T) {
	a := getLimiter("client", 1, 1)
	b := getLimiter("client", 1, 5)
	assert.NotSame(t, a, b)
	assert.Same(t, a, getLimiter("client", 1, 1))
}

func TestGetLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	limiterNow = func() time.Time { return now }
	defer func() { limiterNow = time.Now }()
	mu.Lock()
	lastSweep = now
	mu.Unlock()

	idle := getLimiter("idle-client", 1, 1)
	active := getLimiter("active-client", 1, 1)

	now = now.Add(limiterIdleTTL / 2)
	assert.Same(t, active, getLimiter("active-client", 1, 1))

	now = now.Add(limiterIdleTTL/2 + time.Second)
	getLimiter("other-client", 1, 1)

	mu.Lock()
	_, idleKept := limiters["idle-client|1|1"]
	_, activeKept := limiters["active-client|1|1"]
	mu.Unlock()
	assert.False(t, idleKept)
	assert.True(t, activeKept)

	assert.NotSame(t, idle, getLimiter("idle-client", 1, 1))
}
