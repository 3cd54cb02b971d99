package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/slot-engine/internal/utils"
)

const testSecret = "middleware-secret"

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuthMiddleware(utils.NewJWTManager(testSecret, "", time.Hour))

	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		id, ok := GetPlayerID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

type errorBody struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Error     struct {
		Code int `json:"code"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	r := newTestEngine()
	token, err := utils.NewJWTManager(testSecret, "", time.Hour).GenerateToken("player-42")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "player-42", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestRequireAuth_QueryToken(t *testing.T) {
	r := newTestEngine()
	token, _ := utils.NewJWTManager(testSecret, "", time.Hour).GenerateToken("player-ws")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "player-ws", w.Body.String())
}

func TestRequireAuth_Missing(t *testing.T) {
	r := newTestEngine()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, 7000, body.Error.Code)
	assert.Equal(t, "req-1", body.RequestID)
}

func TestRequireAuth_Invalid(t *testing.T) {
	r := newTestEngine()
	token, _ := utils.NewJWTManager("other-secret", "", time.Hour).GenerateToken("player-1")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Access-Token", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 7003, decodeError(t, w).Error.Code)
}

func TestRequireAuth_Expired(t *testing.T) {
	r := newTestEngine()
	token, _ := utils.NewJWTManager(testSecret, "", -time.Hour).GenerateToken("player-1")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 7002, decodeError(t, w).Error.Code)
}

func TestRecovery(t *testing.T) {
	r := newTestEngine()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1000, decodeError(t, w).Error.Code)
}
