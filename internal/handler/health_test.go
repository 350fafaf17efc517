package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aquaadapt/verification-api/internal/handler"
)

type stubChecker struct{ err error }

func (s *stubChecker) HealthCheck(ctx context.Context) error { return s.err }

type stubPinger struct{ err error }

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthShallow(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health", nil)

	h := handler.NewHealthHandler(nil, nil)
	h.Shallow(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
}

func TestHealthReady_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health/ready", nil)

	h := handler.NewHealthHandler(&stubChecker{}, &stubPinger{})
	h.Ready(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHealthReady_DatabaseUnhealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health/ready", nil)

	h := handler.NewHealthHandler(&stubChecker{err: errors.New("connection refused")}, &stubPinger{})
	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"unhealthy"`)
}

func TestHealthReady_RedisUnhealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health/ready", nil)

	h := handler.NewHealthHandler(&stubChecker{}, &stubPinger{err: errors.New("timeout")})
	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis"`)
}
