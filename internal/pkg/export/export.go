package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const sheetName = "Settlement"

var headers = []string{"Driver", "Unit", "Gross", "Fuel", "Fees", "Advances", "Net"}

// ParseFormat defaults to xlsx when s is empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", settlement.ErrInvalidExportFormat
	}
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func FileName(resp settlement.CalculateSettlementsResponse, f Format) string {
	return fmt.Sprintf("settlement_%s_to_%s.%s", resp.PeriodStart, resp.PeriodEnd, f)
}

// Write renders one row per entry followed by a totals row.
func Write(w io.Writer, f Format, resp settlement.CalculateSettlementsResponse) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, resp)
	case FormatXLSX:
		return writeXLSX(w, resp)
	default:
		return settlement.ErrInvalidExportFormat
	}
}

func amounts(e settlement.EntryResponse) []decimal.Decimal {
	return []decimal.Decimal{e.GrossPay, e.FuelTotal, e.FeeTotal, e.AdvanceTotal, e.NetPay}
}

func totals(s settlement.Summary) []decimal.Decimal {
	return []decimal.Decimal{s.GrossPay, s.FuelTotal, s.FeeTotal, s.AdvanceTotal, s.NetPay}
}

func writeCSV(w io.Writer, resp settlement.CalculateSettlementsResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, e := range resp.Entries {
		row := []string{e.DriverName, e.TruckUnit}
		for _, a := range amounts(e) {
			row = append(row, a.StringFixed(2))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	row := []string{"TOTAL", ""}
	for _, a := range totals(resp.Summary) {
		row = append(row, a.StringFixed(2))
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, resp settlement.CalculateSettlementsResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, e := range resp.Entries {
		if err := setRow(f, row, e.DriverName, e.TruckUnit, amounts(e)); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, row, "TOTAL", "", totals(resp.Summary)); err != nil {
		return err
	}

	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	if err := f.SetCellStyle(sheetName, "C2", last, money); err != nil {
		return err
	}
	headerEnd, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", headerEnd, bold); err != nil {
		return err
	}
	totalStart, _ := excelize.CoordinatesToCellName(1, row)
	totalEnd, _ := excelize.CoordinatesToCellName(2, row)
	if err := f.SetCellStyle(sheetName, totalStart, totalEnd, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "G", 14); err != nil {
		return err
	}

	return f.Write(w)
}

func setRow(f *excelize.File, row int, name, unit string, values []decimal.Decimal) error {
	cells := []interface{}{name, unit}
	for _, v := range values {
		cells = append(cells, v.Round(2).InexactFloat64())
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	return f.SetSheetRow(sheetName, start, &cells)
}
