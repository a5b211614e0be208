package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/zest-order/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")
	utils.InfoLogger.SetOutput(io.Discard)
	utils.ErrorLogger.SetOutput(io.Discard)
	utils.SetJWTSecret("middleware-test-secret")
}

func newToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, "", time.Hour)
	require.NoError(t, err)
	return token
}

func whoAmI(c *gin.Context) {
	c.String(http.StatusOK, UserID(c))
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), whoAmI)

	valid := newToken(t, "user-1")
	revoked := newToken(t, "user-2")
	utils.BlacklistToken(revoked, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, ""},
		{"blacklisted", "Bearer " + revoked, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/ws", WebSocketAuthMiddleware(), whoAmI)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+newToken(t, "user-9"), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-9", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRateLimiter(t *testing.T) {
	limiter := NewUserRateLimiter(1, 2)
	r := gin.New()
	r.POST("/checkout", AuthMiddleware(), limiter.Limit(), whoAmI)

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	asha := newToken(t, "asha")
	ravi := newToken(t, "ravi")

	assert.Equal(t, http.StatusOK, send(asha))
	assert.Equal(t, http.StatusOK, send(asha))
	assert.Equal(t, http.StatusTooManyRequests, send(asha))
	// buckets are per user
	assert.Equal(t, http.StatusOK, send(ravi))
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestCORSAndHeaders(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddlewares("https://app.zest.example"), SecurityHeaders(), LoggerMiddleware())
	r.GET("/orders", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/orders", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.zest.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
