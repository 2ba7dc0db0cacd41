package settlement

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/export"
)

// Export never amortizes, whatever the caller's role.
func (s *SettlementServiceImpl) Export(ctx context.Context, req settlement.ExportRequest, w io.Writer) (settlement.ExportFile, error) {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return settlement.ExportFile{}, err
	}

	result, err := s.CalculateSettlements(ctx, req.Calculation())
	if err != nil {
		return settlement.ExportFile{}, err
	}

	if err := export.Write(w, format, result); err != nil {
		return settlement.ExportFile{}, fmt.Errorf("failed to write %s export: %w", format, err)
	}

	file := settlement.ExportFile{
		FileName:    export.FileName(result, format),
		ContentType: format.ContentType(),
	}
	slog.Info("settlement exported", "file", file.FileName, "drivers", result.Summary.DriverCount)
	return file, nil
}
