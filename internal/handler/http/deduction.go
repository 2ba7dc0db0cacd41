package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DeductionHandler interface {
	// Recurring fees
	CreateFee(w http.ResponseWriter, r *http.Request)
	GetFee(w http.ResponseWriter, r *http.Request)
	ListFees(w http.ResponseWriter, r *http.Request)
	UpdateFee(w http.ResponseWriter, r *http.Request)
	DeleteFee(w http.ResponseWriter, r *http.Request)

	// Cash advances
	CreateAdvance(w http.ResponseWriter, r *http.Request)
	GetAdvance(w http.ResponseWriter, r *http.Request)
	ListAdvances(w http.ResponseWriter, r *http.Request)
	UpdateAdvance(w http.ResponseWriter, r *http.Request)
	DeleteAdvance(w http.ResponseWriter, r *http.Request)
}

type deductionHandlerImpl struct {
	deductionService deduction.DeductionService
}

func NewDeductionHandler(deductionService deduction.DeductionService) DeductionHandler {
	return &deductionHandlerImpl{
		deductionService: deductionService,
	}
}

// CreateFee implements DeductionHandler
func (h *deductionHandlerImpl) CreateFee(w http.ResponseWriter, r *http.Request) {
	var req deduction.CreateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.deductionService.CreateFee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Recurring fee created successfully", result)
}

// GetFee implements DeductionHandler
func (h *deductionHandlerImpl) GetFee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Fee ID is required", nil)
		return
	}

	result, err := h.deductionService.GetFee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListFees implements DeductionHandler
func (h *deductionHandlerImpl) ListFees(w http.ResponseWriter, r *http.Request) {
	req := deduction.ListFeesRequest{
		DriverID: queryString(r, "driver_id"),
		Month:    queryInt(r, "month"),
		Year:     queryInt(r, "year"),
	}

	results, err := h.deductionService.ListFees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// UpdateFee implements DeductionHandler
func (h *deductionHandlerImpl) UpdateFee(w http.ResponseWriter, r *http.Request) {
	var req deduction.UpdateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.deductionService.UpdateFee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recurring fee updated successfully", result)
}

// DeleteFee implements DeductionHandler
func (h *deductionHandlerImpl) DeleteFee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Fee ID is required", nil)
		return
	}

	if err := h.deductionService.DeleteFee(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recurring fee deleted successfully", nil)
}

// CreateAdvance implements DeductionHandler
func (h *deductionHandlerImpl) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	var req deduction.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.deductionService.CreateAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Cash advance created successfully", result)
}

// GetAdvance implements DeductionHandler
func (h *deductionHandlerImpl) GetAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Advance ID is required", nil)
		return
	}

	result, err := h.deductionService.GetAdvance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAdvances implements DeductionHandler
func (h *deductionHandlerImpl) ListAdvances(w http.ResponseWriter, r *http.Request) {
	req := deduction.ListAdvancesRequest{
		DriverID: queryString(r, "driver_id"),
		From:     queryString(r, "from"),
		To:       queryString(r, "to"),
	}

	results, err := h.deductionService.ListAdvances(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// UpdateAdvance implements DeductionHandler
func (h *deductionHandlerImpl) UpdateAdvance(w http.ResponseWriter, r *http.Request) {
	var req deduction.UpdateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.deductionService.UpdateAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance updated successfully", result)
}

// DeleteAdvance implements DeductionHandler
func (h *deductionHandlerImpl) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Advance ID is required", nil)
		return
	}

	if err := h.deductionService.DeleteAdvance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance deleted successfully", nil)
}
