package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kelolahr/hr-backend-go/internal/domain/loan"
	"github.com/kelolahr/hr-backend-go/internal/handler/http/response"
)

type LoanHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Disburse(w http.ResponseWriter, r *http.Request)
	ManualRepay(w http.ResponseWriter, r *http.Request)
	GetSchedule(w http.ResponseWriter, r *http.Request)
}

type loanHandlerImpl struct {
	loanService loan.Service
}

func NewLoanHandler(loanService loan.Service) LoanHandler {
	return &loanHandlerImpl{
		loanService: loanService,
	}
}

// Apply implements LoanHandler.
func (h *loanHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req loan.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.loanService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan application submitted", result)
}

// Approve implements LoanHandler.
func (h *loanHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.loanService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan approved", result)
}

// Disburse implements LoanHandler.
func (h *loanHandlerImpl) Disburse(w http.ResponseWriter, r *http.Request) {
	var req loan.DisburseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.LoanID = chi.URLParam(r, "id")

	result, err := h.loanService.Disburse(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan disbursed", result)
}

// ManualRepay implements LoanHandler.
func (h *loanHandlerImpl) ManualRepay(w http.ResponseWriter, r *http.Request) {
	var req loan.ManualRepayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.loanService.ManualRepayEmi(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Installment paid", result)
}

// GetSchedule implements LoanHandler.
func (h *loanHandlerImpl) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	results, err := h.loanService.GetSchedule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
