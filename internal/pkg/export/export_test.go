package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResponse() settlement.CalculateSettlementsResponse {
	d := decimal.RequireFromString
	return settlement.CalculateSettlementsResponse{
		PeriodStart: "2024-03-04",
		PeriodEnd:   "2024-03-10",
		DryRun:      true,
		Entries: []settlement.EntryResponse{
			{
				DriverName:   "John Smith",
				TruckUnit:    "T-101",
				GrossPay:     d("750"),
				FuelTotal:    d("200"),
				FeeTotal:     d("50"),
				AdvanceTotal: d("100"),
				NetPay:       d("400"),
			},
			{
				DriverName:   "Ann Lee",
				TruckUnit:    "T-202",
				GrossPay:     d("0"),
				FuelTotal:    d("80.5"),
				FeeTotal:     d("0"),
				AdvanceTotal: d("0"),
				NetPay:       d("-80.5"),
			},
		},
		Summary: settlement.Summary{
			DriverCount:  2,
			GrossPay:     d("750"),
			FuelTotal:    d("280.5"),
			FeeTotal:     d("50"),
			AdvanceTotal: d("100"),
			NetPay:       d("319.5"),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, settlement.ErrInvalidExportFormat)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "settlement_2024-03-04_to_2024-03-10.csv", FileName(sampleResponse(), FormatCSV))
	assert.Equal(t, "settlement_2024-03-04_to_2024-03-10.xlsx", FileName(sampleResponse(), FormatXLSX))
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer

	err := Write(&buf, FormatCSV, sampleResponse())

	require.NoError(t, err)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"John Smith", "T-101", "750.00", "200.00", "50.00", "100.00", "400.00"}, rows[1])
	assert.Equal(t, "-80.50", rows[2][6])
	assert.Equal(t, []string{"TOTAL", "", "750.00", "280.50", "50.00", "100.00", "319.50"}, rows[3])
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer

	err := Write(&buf, FormatXLSX, sampleResponse())
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Driver", rows[0][0])
	assert.Equal(t, "John Smith", rows[1][0])
	assert.Equal(t, "750", rows[1][2])
	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "319.5", rows[3][6])
}
