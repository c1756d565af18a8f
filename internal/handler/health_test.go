package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/segyhp/reminder-engine/internal/handler"
	"github.com/stretchr/testify/assert"
)

type fakeDB struct{ err error }

func (f fakeDB) PingContext(context.Context) error { return f.err }

type fakeRedis struct{ err error }

func (f fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.err)
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name           string
		db             handler.DBPinger
		redis          handler.RedisPinger
		expectedStatus int
		expectedBody   string
	}{
		{"all ok", fakeDB{}, fakeRedis{}, http.StatusOK, `"redis":"ok"`},
		{"redis disabled", fakeDB{}, nil, http.StatusOK, `"redis":"disabled"`},
		{"database down", fakeDB{err: errors.New("refused")}, nil, http.StatusServiceUnavailable, `"database":"failed: refused"`},
		{"redis down", fakeDB{}, fakeRedis{err: errors.New("timeout")}, http.StatusServiceUnavailable, `"redis":"failed: timeout"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.db, tt.redis)
			w := httptest.NewRecorder()

			h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHealthHandler_Health(t *testing.T) {
	h := handler.NewHealthHandler(fakeDB{}, nil)
	w := httptest.NewRecorder()

	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
