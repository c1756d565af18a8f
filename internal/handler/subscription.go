package handler

import (
	"encoding/json"
	"net/http"

	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type SubscriptionHandler struct {
	service   SubscriptionService
	validator *validator.Validate
	logger    logrus.FieldLogger
}

func NewSubscriptionHandler(service SubscriptionService, logger logrus.FieldLogger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Subscribe handles POST /api/v1/notifications/subscribe
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Invalid subscription data", nil)
		return
	}

	sub, err := h.service.Subscribe(r.Context(), owner, &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, sub)
}
