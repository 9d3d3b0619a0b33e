package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/middleware"
)

func TestLoggerIncludesAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	r := gin.New()
	r.Use(middleware.Logger())
	r.GET("/ping", func(c *gin.Context) {
		c.Set("user_id", 7)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	line := buf.String()
	if !strings.Contains(line, "user=7") {
		t.Fatalf("日志应包含登录用户 ID: %s", line)
	}
	if !strings.Contains(line, "/ping") || !strings.Contains(line, "[GET]") {
		t.Fatalf("日志应包含方法与路径: %s", line)
	}
}

func TestLoggerAnonymousUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	r := gin.New()
	r.Use(middleware.Logger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	if !strings.Contains(buf.String(), "user=-") {
		t.Fatalf("匿名请求应记录 user=-: %s", buf.String())
	}
}
