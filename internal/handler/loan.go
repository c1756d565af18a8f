package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/segyhp/reminder-engine/internal/domain"
	"github.com/segyhp/reminder-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type LoanHandler struct {
	service   LoanService
	validator *validator.Validate
	logger    logrus.FieldLogger
}

func NewLoanHandler(service LoanService, logger logrus.FieldLogger) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), owner, &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Created(w, loan)
}

// ListLoans handles GET /api/v1/loans?status=...
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	status := r.URL.Query().Get("status")
	if err := h.validator.Var(status, "omitempty,oneof=Active Completed Overdue"); err != nil {
		response.BadRequest(w, "Invalid status filter", err)
		return
	}

	loans, err := h.service.ListLoans(r.Context(), owner, status)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, loans)
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	loan, err := h.service.GetLoan(r.Context(), owner, loanID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, loan)
}

// MarkInstallmentPaid handles POST /api/v1/loans/{loanId}/emi
func (h *LoanHandler) MarkInstallmentPaid(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	var req domain.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if req.EMIID == uuid.Nil {
		response.BadRequest(w, "EMI ID required", nil)
		return
	}

	loan, err := h.service.MarkInstallmentPaid(r.Context(), owner, loanID, req.EMIID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	response.Success(w, loan)
}
