package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/disbursement"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DisbursementHandler interface {
	CreateForCycle(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListByCycle(w http.ResponseWriter, r *http.Request)
	GeneratePaymentFile(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	BulkUpdateStatus(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type disbursementHandlerImpl struct {
	disbursementService disbursement.Service
}

func NewDisbursementHandler(disbursementService disbursement.Service) DisbursementHandler {
	return &disbursementHandlerImpl{disbursementService: disbursementService}
}

func (h *disbursementHandlerImpl) CreateForCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "id")
	if cycleID == "" {
		response.BadRequest(w, "Cycle ID is required", nil)
		return
	}

	result, err := h.disbursementService.CreateForCycle(r.Context(), cycleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Disbursements created", result)
}

func (h *disbursementHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Disbursement ID is required", nil)
		return
	}

	result, err := h.disbursementService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *disbursementHandlerImpl) ListByCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "id")
	if cycleID == "" {
		response.BadRequest(w, "Cycle ID is required", nil)
		return
	}

	result, err := h.disbursementService.ListByCycle(r.Context(), cycleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *disbursementHandlerImpl) GeneratePaymentFile(w http.ResponseWriter, r *http.Request) {
	var req disbursement.GeneratePaymentFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.disbursementService.GeneratePaymentFile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *disbursementHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Disbursement ID is required", nil)
		return
	}

	var req disbursement.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.disbursementService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Disbursement status updated", result)
}

func (h *disbursementHandlerImpl) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req disbursement.BulkUpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.disbursementService.BulkUpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Disbursement statuses updated", result)
}

func (h *disbursementHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req disbursement.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.disbursementService.Reconcile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation finished", result)
}
