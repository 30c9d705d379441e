package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renomatch/renomatch-backend/pkg/config"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: config.AppEnvDev}}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(healthConfig())(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.AppEnvDev, rec.Header().Get("X-RenoMatch-Env"))
}

func TestHealthReady_AllHealthy(t *testing.T) {
	rec := httptest.NewRecorder()
	handler := HealthReady(healthConfig(), nil, &fakePinger{}, &fakePinger{})
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReady_ReportsEveryFailingDependency(t *testing.T) {
	rec := httptest.NewRecorder()
	handler := HealthReady(healthConfig(), nil, &fakePinger{err: errors.New("db down")}, &fakePinger{err: errors.New("redis down")})
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database")
	assert.Contains(t, rec.Body.String(), "redis")
}
