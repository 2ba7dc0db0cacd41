package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DriverHandler interface {
	CreateDriver(w http.ResponseWriter, r *http.Request)
	GetDriver(w http.ResponseWriter, r *http.Request)
	ListDrivers(w http.ResponseWriter, r *http.Request)
	UpdateDriver(w http.ResponseWriter, r *http.Request)
	DeleteDriver(w http.ResponseWriter, r *http.Request)
}

type driverHandlerImpl struct {
	driverService driver.DriverService
}

func NewDriverHandler(driverService driver.DriverService) DriverHandler {
	return &driverHandlerImpl{
		driverService: driverService,
	}
}

// CreateDriver implements DriverHandler
func (h *driverHandlerImpl) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req driver.CreateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.driverService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Driver created successfully", result)
}

// GetDriver implements DriverHandler
func (h *driverHandlerImpl) GetDriver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Driver ID is required", nil)
		return
	}

	result, err := h.driverService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListDrivers implements DriverHandler
func (h *driverHandlerImpl) ListDrivers(w http.ResponseWriter, r *http.Request) {
	var filter driver.DriverFilter
	if s := queryString(r, "status"); s != nil {
		status := driver.Status(*s)
		filter.Status = &status
	}
	filter.Search = queryString(r, "search")

	results, err := h.driverService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// UpdateDriver implements DriverHandler
func (h *driverHandlerImpl) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	var req driver.UpdateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.driverService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Driver updated successfully", result)
}

// DeleteDriver implements DriverHandler
func (h *driverHandlerImpl) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Driver ID is required", nil)
		return
	}

	if err := h.driverService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Driver deleted successfully", nil)
}
