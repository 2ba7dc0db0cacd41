package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/driver-settlement-go/internal/handler/http/response"
)

type SettlementHandler interface {
	CalculateSettlements(w http.ResponseWriter, r *http.Request)
	ExportSettlements(w http.ResponseWriter, r *http.Request)
	ApplyBatchFees(w http.ResponseWriter, r *http.Request)
	GetOverview(w http.ResponseWriter, r *http.Request)
}

type settlementHandlerImpl struct {
	settlementService settlement.SettlementService
}

func NewSettlementHandler(settlementService settlement.SettlementService) SettlementHandler {
	return &settlementHandlerImpl{
		settlementService: settlementService,
	}
}

// CalculateSettlements implements SettlementHandler. Dispatchers may only preview.
func (h *settlementHandlerImpl) CalculateSettlements(w http.ResponseWriter, r *http.Request) {
	var req settlement.CalculateSettlementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if !req.DryRun && !middleware.IsAdmin(r.Context()) {
		response.HandleError(w, settlement.ErrAmortizationRequiresAdmin)
		return
	}

	result, err := h.settlementService.CalculateSettlements(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportSettlements implements SettlementHandler
func (h *settlementHandlerImpl) ExportSettlements(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := settlement.ExportRequest{
		PeriodStart: query.Get("start"),
		PeriodEnd:   query.Get("end"),
		DriverIDs:   query["driver_id"],
		Format:      query.Get("format"),
	}

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	file, err := h.settlementService.Export(r.Context(), req, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("ExportSettlements send error", "error", err)
	}
}

// ApplyBatchFees implements SettlementHandler
func (h *settlementHandlerImpl) ApplyBatchFees(w http.ResponseWriter, r *http.Request) {
	var req settlement.BatchFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.settlementService.ApplyBatchFees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Summary, result)
}

// GetOverview implements SettlementHandler
func (h *settlementHandlerImpl) GetOverview(w http.ResponseWriter, r *http.Request) {
	req := settlement.OverviewRequest{
		PeriodStart: r.URL.Query().Get("start"),
		PeriodEnd:   r.URL.Query().Get("end"),
	}

	result, err := h.settlementService.Overview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
