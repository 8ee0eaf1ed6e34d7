package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"assistant-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func TestRequestIDMiddleware(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(RequestIDMiddleware())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIdKey).(string)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	req.Len(w.Header().Get(RequestIDHeader), 32)
	req.Equal(w.Header().Get(RequestIDHeader), seen)

	w = httptest.NewRecorder()
	in := httptest.NewRequest(http.MethodGet, "/", nil)
	in.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(w, in)
	req.Equal("abc", w.Header().Get(RequestIDHeader))
	req.Equal("abc", seen)
}

func TestCORSMiddleware(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/chats", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	in := httptest.NewRequest(http.MethodGet, "/chats", nil)
	in.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, in)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	req.Equal("true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	in = httptest.NewRequest(http.MethodGet, "/chats", nil)
	in.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, in)
	req.Empty(w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	in = httptest.NewRequest(http.MethodOptions, "/chats", nil)
	in.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, in)
	req.Equal(http.StatusNoContent, w.Code)
}

func TestCORSMiddleware_WildcardOmitsCredentials(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(CORSMiddleware([]string{"*"}))
	r.GET("/chats", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, origin := range []string{"http://localhost:3000", "http://evil.example"} {
		w := httptest.NewRecorder()
		in := httptest.NewRequest(http.MethodGet, "/chats", nil)
		in.Header.Set("Origin", origin)
		r.ServeHTTP(w, in)

		req.Equal(http.StatusOK, w.Code)
		req.Equal("*", w.Header().Get("Access-Control-Allow-Origin"), origin)
		req.Empty(w.Header().Get("Access-Control-Allow-Credentials"), origin)
	}
}

func TestRecoveryAndErrorHandler(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(Recovery(logger.NewNop()), ErrorHandler(logger.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/err", func(c *gin.Context) { _ = c.Error(http.ErrAbortHandler) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	req.Equal(http.StatusInternalServerError, w.Code)
	req.JSONEq(`{"detail":"internal error","code":"INTERNAL_ERROR"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	req.Equal(http.StatusInternalServerError, w.Code)
	req.JSONEq(`{"detail":"internal error","code":"INTERNAL_ERROR"}`, w.Body.String())
}

func TestErrorHandler_KeepsWrittenBody(t *testing.T) {
	req := require.New(t)
	core, logs := observer.New(zapcore.ErrorLevel)
	r := newTestRouter(ErrorHandler(&logger.Logger{Logger: zap.New(core)}))
	r.POST("/chats", func(c *gin.Context) {
		_ = c.Error(errors.New("insert failed"))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error", "code": "INTERNAL_ERROR"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chats", nil))
	req.Equal(http.StatusInternalServerError, w.Code)
	req.JSONEq(`{"detail":"internal error","code":"INTERNAL_ERROR"}`, w.Body.String())

	entries := logs.FilterMessage("request error").All()
	req.Len(entries, 1)
	req.Equal(http.MethodPost, entries[0].ContextMap()["method"])
	req.Equal(int64(http.StatusInternalServerError), entries[0].ContextMap()["status"])
}
