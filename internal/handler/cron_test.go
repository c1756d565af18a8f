package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/handler"
	"github.com/segyhp/reminder-engine/internal/lock"
	"github.com/segyhp/reminder-engine/internal/mocks"
	"github.com/segyhp/reminder-engine/pkg/response"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCronHandler_Run(t *testing.T) {
	summary := domain.Summary{
		EmailsSent:      3,
		PushSent:        5,
		RemindersMissed: 1,
		LoansProcessed:  4,
		LoansOverdue:    1,
		CalendarSynced:  2,
		CalendarFailed:  1,
	}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*mocks.MockJobRunner)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "missing secret",
			query:          "",
			setupMock:      func(*mocks.MockJobRunner) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret",
			query:          "?secret=nope",
			setupMock:      func(*mocks.MockJobRunner) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "successful cycle",
			query: "?secret=s3cret",
			setupMock: func(m *mocks.MockJobRunner) {
				m.On("Run", mock.Anything).Return(summary, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body struct {
					Success bool                   `json:"success"`
					Data    map[string]interface{} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.True(t, body.Success)
				assert.Equal(t, float64(3), body.Data["emailsSent"])
				assert.Equal(t, float64(5), body.Data["pushSent"])
				assert.Equal(t, float64(1), body.Data["remindersMissed"])
				assert.Equal(t, float64(4), body.Data["loansProcessed"])
				assert.Equal(t, float64(2), body.Data["googleAccountsSynced"])
				assert.Equal(t, float64(1), body.Data["googleSyncFailed"])
			},
		},
		{
			name:  "cycle already running",
			query: "?secret=s3cret",
			setupMock: func(m *mocks.MockJobRunner) {
				m.On("Run", mock.Anything).Return(domain.Summary{}, lock.ErrLocked).Once()
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:  "cycle failed",
			query: "?secret=s3cret",
			setupMock: func(m *mocks.MockJobRunner) {
				m.On("Run", mock.Anything).Return(domain.Summary{EmailsSent: 1}, errors.New("list active loans: connection refused")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body struct {
					Success bool   `json:"success"`
					Error   string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.False(t, body.Success)
				assert.Equal(t, "Cron job failed", body.Error)
				assert.NotContains(t, w.Body.String(), "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mocks.MockJobRunner)
			tt.setupMock(runner)
			logger, _ := test.NewNullLogger()
			h := handler.NewCronHandler(runner, "s3cret", time.Minute, logger)

			req := httptest.NewRequest(http.MethodGet, "/api/cron"+tt.query, nil)
			w := httptest.NewRecorder()
			h.Run(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
			runner.AssertExpectations(t)
			if tt.expectedStatus == http.StatusUnauthorized {
				runner.AssertNotCalled(t, "Run", mock.Anything)
			}
		})
	}
}

func TestCronHandler_EmptySecretRejectsEverything(t *testing.T) {
	runner := new(mocks.MockJobRunner)
	logger, _ := test.NewNullLogger()
	h := handler.NewCronHandler(runner, "", time.Minute, logger)

	w := httptest.NewRecorder()
	h.Run(w, httptest.NewRequest(http.MethodGet, "/api/cron?secret=", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	runner.AssertNotCalled(t, "Run", mock.Anything)
}

func TestCronHandler_RunSurvivesCallerHangUp(t *testing.T) {
	runner := new(mocks.MockJobRunner)
	runner.On("Run", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	})).Return(domain.Summary{EmailsSent: 1}, nil).Once()

	logger, _ := test.NewNullLogger()
	h := handler.NewCronHandler(runner, "s3cret", time.Minute, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/cron?secret=s3cret", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h.Run(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	runner.AssertExpectations(t)
}

func TestCronHandler_RunOutlivesServerWriteTimeout(t *testing.T) {
	runner := new(mocks.MockJobRunner)
	runner.On("Run", mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(300 * time.Millisecond) }).
		Return(domain.Summary{PushSent: 2}, nil).Once()

	logger, _ := test.NewNullLogger()
	h := handler.NewCronHandler(runner, "s3cret", time.Second, logger)

	srv := httptest.NewUnstartedServer(response.LoggingMiddleware(logger)(http.HandlerFunc(h.Run)))
	srv.Config.WriteTimeout = 50 * time.Millisecond
	srv.Start()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/cron?secret=s3cret")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"pushSent":2`)
}
