package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FuelHandler interface {
	CreateFuelTransaction(w http.ResponseWriter, r *http.Request)
	ImportFuelTransactions(w http.ResponseWriter, r *http.Request)
	ListFuelTransactions(w http.ResponseWriter, r *http.Request)
	AssignDriver(w http.ResponseWriter, r *http.Request)
	DeleteFuelTransaction(w http.ResponseWriter, r *http.Request)
}

type fuelHandlerImpl struct {
	fuelService fuel.FuelService
}

func NewFuelHandler(fuelService fuel.FuelService) FuelHandler {
	return &fuelHandlerImpl{
		fuelService: fuelService,
	}
}

// CreateFuelTransaction implements FuelHandler
func (h *fuelHandlerImpl) CreateFuelTransaction(w http.ResponseWriter, r *http.Request) {
	var req fuel.CreateFuelTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fuelService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Fuel transaction created successfully", result)
}

// ImportFuelTransactions implements FuelHandler
func (h *fuelHandlerImpl) ImportFuelTransactions(w http.ResponseWriter, r *http.Request) {
	var req fuel.ImportFuelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ImportFuelTransactions decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fuelService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	msg := fmt.Sprintf("Imported %d fuel transactions, skipped %d duplicates", result.Imported, result.Duplicates)
	response.SuccessWithMessage(w, msg, result)
}

// ListFuelTransactions implements FuelHandler
func (h *fuelHandlerImpl) ListFuelTransactions(w http.ResponseWriter, r *http.Request) {
	req := fuel.ListFuelRequest{
		DriverID:       queryString(r, "driver_id"),
		From:           queryString(r, "from"),
		To:             queryString(r, "to"),
		UnassignedOnly: queryBool(r, "unassigned"),
	}

	results, err := h.fuelService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// AssignDriver implements FuelHandler
func (h *fuelHandlerImpl) AssignDriver(w http.ResponseWriter, r *http.Request) {
	var req fuel.AssignDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.fuelService.AssignDriver(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fuel transaction updated successfully", result)
}

// DeleteFuelTransaction implements FuelHandler
func (h *fuelHandlerImpl) DeleteFuelTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Fuel transaction ID is required", nil)
		return
	}

	if err := h.fuelService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fuel transaction deleted successfully", nil)
}
