package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ReminderHandler struct {
	service   ReminderService
	validator *validator.Validate
	logger    logrus.FieldLogger
}

func NewReminderHandler(service ReminderService, logger logrus.FieldLogger) *ReminderHandler {
	return &ReminderHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// CreateReminder handles POST /api/v1/reminders
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req domain.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	reminder, err := h.service.CreateReminder(r.Context(), owner, &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Created(w, reminder)
}

// ListReminders handles GET /api/v1/reminders with optional status,
// category, priority, search, from and to (RFC 3339) query filters
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	q := r.URL.Query()
	filter := domain.ReminderFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	}

	var err error
	if filter.From, err = parseTimeParam(q.Get("from")); err != nil {
		response.BadRequest(w, "Invalid from date", err)
		return
	}
	if filter.To, err = parseTimeParam(q.Get("to")); err != nil {
		response.BadRequest(w, "Invalid to date", err)
		return
	}
	if err := h.validator.Struct(filter); err != nil {
		response.BadRequest(w, "Invalid filter", err)
		return
	}

	reminders, err := h.service.ListReminders(r.Context(), owner, filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, reminders)
}

// GetReminder handles GET /api/v1/reminders/{reminderId}
func (h *ReminderHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	owner, reminderID, ok := h.reminderRequest(w, r)
	if !ok {
		return
	}

	reminder, err := h.service.GetReminder(r.Context(), owner, reminderID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, reminder)
}

// UpdateReminder handles PUT /api/v1/reminders/{reminderId}
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	owner, reminderID, ok := h.reminderRequest(w, r)
	if !ok {
		return
	}

	var req domain.UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	reminder, err := h.service.UpdateReminder(r.Context(), owner, reminderID, &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, reminder)
}

// CompleteReminder handles POST /api/v1/reminders/{reminderId}/complete
func (h *ReminderHandler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	owner, reminderID, ok := h.reminderRequest(w, r)
	if !ok {
		return
	}

	reminder, err := h.service.CompleteReminder(r.Context(), owner, reminderID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, reminder)
}

// DeleteReminder handles DELETE /api/v1/reminders/{reminderId}
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	owner, reminderID, ok := h.reminderRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReminder(r.Context(), owner, reminderID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, nil)
}

func (h *ReminderHandler) reminderRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	reminderID, err := uuid.Parse(mux.Vars(r)["reminderId"])
	if err != nil {
		response.BadRequest(w, "Invalid reminder ID", err)
		return uuid.Nil, uuid.Nil, false
	}

	return owner, reminderID, true
}

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
