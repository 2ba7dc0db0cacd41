package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LoadHandler interface {
	CreateLoad(w http.ResponseWriter, r *http.Request)
	GetLoad(w http.ResponseWriter, r *http.Request)
	ListLoads(w http.ResponseWriter, r *http.Request)
	UpdateLoad(w http.ResponseWriter, r *http.Request)
	UpdateLoadStatus(w http.ResponseWriter, r *http.Request)
	DeleteLoad(w http.ResponseWriter, r *http.Request)
}

type loadHandlerImpl struct {
	loadService load.LoadService
}

func NewLoadHandler(loadService load.LoadService) LoadHandler {
	return &loadHandlerImpl{
		loadService: loadService,
	}
}

// CreateLoad implements LoadHandler
func (h *loadHandlerImpl) CreateLoad(w http.ResponseWriter, r *http.Request) {
	var req load.CreateLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.loadService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Load created successfully", result)
}

// GetLoad implements LoadHandler
func (h *loadHandlerImpl) GetLoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Load ID is required", nil)
		return
	}

	result, err := h.loadService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListLoads implements LoadHandler
func (h *loadHandlerImpl) ListLoads(w http.ResponseWriter, r *http.Request) {
	req := load.ListLoadsRequest{
		DriverID: queryString(r, "driver_id"),
		Status:   queryString(r, "status"),
		From:     queryString(r, "from"),
		To:       queryString(r, "to"),
		Search:   queryString(r, "search"),
	}

	results, err := h.loadService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// UpdateLoad implements LoadHandler
func (h *loadHandlerImpl) UpdateLoad(w http.ResponseWriter, r *http.Request) {
	var req load.UpdateLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.loadService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Load updated successfully", result)
}

// UpdateLoadStatus implements LoadHandler
func (h *loadHandlerImpl) UpdateLoadStatus(w http.ResponseWriter, r *http.Request) {
	var req load.UpdateLoadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.loadService.UpdateStatus(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Load status updated successfully", nil)
}

// DeleteLoad implements LoadHandler
func (h *loadHandlerImpl) DeleteLoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Load ID is required", nil)
		return
	}

	if err := h.loadService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Load deleted successfully", nil)
}
