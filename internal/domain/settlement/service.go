package settlement

import (
	"context"
	"io"
)

type SettlementService interface {
	// CalculateSettlements computes one entry per driver in scope. Unless the request is a
	// dry run, fees and advances that contributed are amortized once for the period;
	// the response's Amortized field counts the installments recorded by that run.
	CalculateSettlements(ctx context.Context, req CalculateSettlementsRequest) (CalculateSettlementsResponse, error)
	// ApplyBatchFees creates single-installment fees for every active driver. Fees created
	// before a failure are kept.
	ApplyBatchFees(ctx context.Context, req BatchFeeRequest) (BatchFeeResult, error)
	// Overview lists the period's records that no settlement will pick up.
	Overview(ctx context.Context, req OverviewRequest) (OverviewResponse, error)
	// Export writes a dry-run calculation for the period to w as a spreadsheet.
	Export(ctx context.Context, req ExportRequest, w io.Writer) (ExportFile, error)
}
