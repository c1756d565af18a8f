package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/internal/handler"
	"github.com/segyhp/reminder-engine/internal/mocks"
	customError "github.com/segyhp/reminder-engine/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReminderRouter(svc *mocks.MockReminderService) *mux.Router {
	logger, _ := test.NewNullLogger()
	h := handler.NewReminderHandler(svc, logger)
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reminders", h.CreateReminder).Methods("POST")
	router.HandleFunc("/api/v1/reminders", h.ListReminders).Methods("GET")
	router.HandleFunc("/api/v1/reminders/{reminderId}", h.GetReminder).Methods("GET")
	router.HandleFunc("/api/v1/reminders/{reminderId}", h.UpdateReminder).Methods("PUT")
	router.HandleFunc("/api/v1/reminders/{reminderId}", h.DeleteReminder).Methods("DELETE")
	router.HandleFunc("/api/v1/reminders/{reminderId}/complete", h.CompleteReminder).Methods("POST")
	return router
}

func TestReminderHandler_CreateReminder(t *testing.T) {
	owner := uuid.New()
	validBody := map[string]interface{}{
		"title":     "Pay rent",
		"date_time": "2024-06-04T09:00:00Z",
		"category":  "Personal",
		"priority":  "High",
	}

	tests := []struct {
		name           string
		userID         *uuid.UUID
		requestBody    interface{}
		setupMock      func(*mocks.MockReminderService)
		expectedStatus int
	}{
		{
			name:        "created",
			userID:      &owner,
			requestBody: validBody,
			setupMock: func(m *mocks.MockReminderService) {
				m.On("CreateReminder", mock.Anything, owner, mock.MatchedBy(func(req *domain.CreateReminderRequest) bool {
					return req.Title == "Pay rent" &&
						req.Category == domain.CategoryPersonal &&
						req.DateTime.Equal(time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC))
				})).Return(&domain.Reminder{ID: uuid.New(), Status: domain.ReminderStatusPending}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "unknown category",
			userID: &owner,
			requestBody: map[string]interface{}{
				"title":     "Pay rent",
				"date_time": "2024-06-04T09:00:00Z",
				"category":  "Chores",
				"priority":  "High",
			},
			setupMock:      func(m *mocks.MockReminderService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "missing date",
			userID: &owner,
			requestBody: map[string]interface{}{
				"title":    "Pay rent",
				"category": "Personal",
				"priority": "High",
			},
			setupMock:      func(m *mocks.MockReminderService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "no user",
			requestBody:    validBody,
			setupMock:      func(m *mocks.MockReminderService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "service failure",
			userID:      &owner,
			requestBody: validBody,
			setupMock: func(m *mocks.MockReminderService) {
				m.On("CreateReminder", mock.Anything, owner, mock.Anything).Return(nil, errors.New("boom")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockReminderService)
			tt.setupMock(svc)

			w := doRequest(newReminderRouter(svc), http.MethodPost, "/api/v1/reminders", tt.userID, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestReminderHandler_ListReminders(t *testing.T) {
	owner := uuid.New()

	t.Run("query becomes filter", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		svc.On("ListReminders", mock.Anything, owner, mock.MatchedBy(func(f domain.ReminderFilter) bool {
			return f.Status == domain.ReminderStatusPending &&
				f.Category == domain.CategoryWork &&
				f.Search == "standup" &&
				f.From != nil && f.From.Equal(from) &&
				f.To == nil
		})).Return([]*domain.Reminder{{ID: uuid.New(), Title: "Daily standup"}}, nil)

		w := doRequest(newReminderRouter(svc), http.MethodGet,
			"/api/v1/reminders?status=Pending&category=Work&search=standup&from=2024-06-01T00:00:00Z", &owner, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data []domain.Reminder `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Daily standup", body.Data[0].Title)
		svc.AssertExpectations(t)
	})

	rejected := map[string]string{
		"bad from":     "/api/v1/reminders?from=yesterday",
		"bad to":       "/api/v1/reminders?to=2024-13-01",
		"bad status":   "/api/v1/reminders?status=Snoozed",
		"bad priority": "/api/v1/reminders?priority=Urgent",
	}
	for name, path := range rejected {
		t.Run(name, func(t *testing.T) {
			svc := new(mocks.MockReminderService)
			w := doRequest(newReminderRouter(svc), http.MethodGet, path, &owner, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "ListReminders", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("inverted range", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		svc.On("ListReminders", mock.Anything, owner, mock.Anything).
			Return(nil, customError.WrapInvalidReminder("from must not be after to"))

		w := doRequest(newReminderRouter(svc), http.MethodGet,
			"/api/v1/reminders?from=2024-06-02T00:00:00Z&to=2024-06-01T00:00:00Z", &owner, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReminderHandler_GetReminder(t *testing.T) {
	owner := uuid.New()
	reminderID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		svc.On("GetReminder", mock.Anything, owner, reminderID).Return(nil, customError.WrapReminderNotFound(reminderID.String()))

		w := doRequest(newReminderRouter(svc), http.MethodGet, "/api/v1/reminders/"+reminderID.String(), &owner, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		w := doRequest(newReminderRouter(svc), http.MethodGet, "/api/v1/reminders/abc", &owner, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetReminder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReminderHandler_UpdateReminder(t *testing.T) {
	owner := uuid.New()
	reminderID := uuid.New()
	path := "/api/v1/reminders/" + reminderID.String()

	t.Run("updated", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		svc.On("UpdateReminder", mock.Anything, owner, reminderID, mock.MatchedBy(func(req *domain.UpdateReminderRequest) bool {
			return req.Title != nil && *req.Title == "Pay rent early" && req.Status == nil
		})).Return(&domain.Reminder{ID: reminderID, Title: "Pay rent early"}, nil)

		w := doRequest(newReminderRouter(svc), http.MethodPut, path, &owner, map[string]interface{}{"title": "Pay rent early"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid priority", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		w := doRequest(newReminderRouter(svc), http.MethodPut, path, &owner, map[string]interface{}{"priority": "Urgent"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("resolved reminder", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		svc.On("UpdateReminder", mock.Anything, owner, reminderID, mock.Anything).
			Return(nil, customError.WrapReminderResolved(reminderID.String(), domain.ReminderStatusMissed))

		w := doRequest(newReminderRouter(svc), http.MethodPut, path, &owner, map[string]interface{}{"title": "x"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReminderHandler_CompleteReminder(t *testing.T) {
	owner := uuid.New()
	reminderID := uuid.New()
	path := "/api/v1/reminders/" + reminderID.String() + "/complete"

	t.Run("completed", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		svc.On("CompleteReminder", mock.Anything, owner, reminderID).
			Return(&domain.Reminder{ID: reminderID, Status: domain.ReminderStatusCompleted}, nil)

		w := doRequest(newReminderRouter(svc), http.MethodPost, path, &owner, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data domain.Reminder `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, domain.ReminderStatusCompleted, body.Data.Status)
	})

	t.Run("already resolved", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		svc.On("CompleteReminder", mock.Anything, owner, reminderID).
			Return(nil, customError.WrapReminderResolved(reminderID.String(), domain.ReminderStatusCompleted))

		w := doRequest(newReminderRouter(svc), http.MethodPost, path, &owner, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReminderHandler_DeleteReminder(t *testing.T) {
	owner := uuid.New()
	reminderID := uuid.New()
	path := "/api/v1/reminders/" + reminderID.String()

	t.Run("deleted", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		svc.On("DeleteReminder", mock.Anything, owner, reminderID).Return(nil)

		w := doRequest(newReminderRouter(svc), http.MethodDelete, path, &owner, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		svc := new(mocks.MockReminderService)
		w := doRequest(newReminderRouter(svc), http.MethodDelete, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "DeleteReminder", mock.Anything, mock.Anything, mock.Anything)
	})
}
