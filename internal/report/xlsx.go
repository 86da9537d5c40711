package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"profitdash/internal/profit"
)

const (
	sheetSummary     = "Summary"
	sheetOrders      = "Orders"
	sheetCountries   = "Countries"
	sheetDiagnostics = "Diagnostics"
)

// WriteWorkbook saves the report as an XLSX workbook at path and returns the
// path written.
func WriteWorkbook(r *profit.Report, path string) (string, error) {
	const operation = "report.WriteWorkbook"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return "", fmt.Errorf("%s: rename sheet: %w", operation, err)
	}
	for _, name := range []string{sheetOrders, sheetCountries, sheetDiagnostics} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("%s: failed to create sheet: %w", operation, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("%s: style: %w", operation, err)
	}

	writeSummarySheet(f, r, bold)
	writeTable(f, sheetOrders, orderHeaders, orderRows(r), bold)
	writeTable(f, sheetCountries, []string{"Country", "Orders"}, countryRows(r), bold)
	writeTable(f, sheetDiagnostics, []string{"Order", "Kind", "Message"}, diagnosticRows(r), bold)

	f.SetActiveSheet(0)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%s: failed to create reports directory: %w", operation, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("%s: failed to save Excel file: %w", operation, err)
	}
	return path, nil
}

func writeSummarySheet(f *excelize.File, r *profit.Report, bold int) {
	title := r.Title
	if title == "" {
		title = r.Line
	}
	rows := [][]any{
		{"Product line", title},
		{"Period", r.DateRange.Label()},
		{"Store currency", r.StoreCurrency},
		{"Cost currency", r.CostCurrency},
		{"FX rate", r.FXRate},
		{},
		{"", "Blended", "Front-end (NC)"},
	}
	b, nc := r.Blended, r.FrontEnd
	rows = append(rows,
		[]any{"Orders", b.Orders, nc.Orders},
		[]any{"Revenue (" + r.StoreCurrency + ")", b.Revenue.Source, nc.Revenue.Source},
		[]any{"Revenue (" + r.CostCurrency + ")", b.Revenue.Converted, nc.Revenue.Converted},
		[]any{"Fees", b.Revenue.Fees, nc.Revenue.Fees},
		[]any{"Net after fees", b.Revenue.NetAfterFees, nc.Revenue.NetAfterFees},
		[]any{"COGS", b.COGS, nc.COGS},
		[]any{"Gross profit", b.GrossProfit, nc.GrossProfit},
		[]any{"Ad spend", b.AdSpend, nc.AdSpend},
		[]any{"Profit", b.OverallProfit, nc.OverallProfit},
		[]any{"Margin", Percent(b.Margin), Percent(nc.Margin)},
		[]any{"ROAS", b.ROAS.String(), nc.ROAS.String()},
		[]any{},
		[]any{"Orders with COGS", r.OrdersComputed()},
		[]any{"Recurring orders", r.RecurringOrders},
		[]any{"First orders", r.FirstOrders()},
	)

	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			f.SetCellValue(sheetSummary, cell, value)
		}
	}
	last, _ := excelize.CoordinatesToCellName(1, len(rows))
	f.SetCellStyle(sheetSummary, "A1", last, bold)
	f.SetCellStyle(sheetSummary, "B7", "C7", bold)
	f.SetColWidth(sheetSummary, "A", "A", 22)
	f.SetColWidth(sheetSummary, "B", "C", 16)
}

var orderHeaders = []string{
	"Order", "Date", "Country", "Raw Country", "Segment", "Units", "Main Cost",
	"Surcharge", "Extras Cost", "COGS", "Revenue", "Revenue Converted", "Fees",
	"Computed", "Status", "Unmapped", "Warnings",
}

func orderRows(r *profit.Report) [][]any {
	rows := make([][]any, 0, len(r.Orders))
	for _, o := range r.Orders {
		date := ""
		if o.HasDate {
			date = o.Date.Format("2006-01-02 15:04")
		}
		rows = append(rows, []any{
			o.ID,
			date,
			o.Country(),
			o.RawCountry,
			string(o.Segment),
			o.PrimaryUnits,
			o.PrimaryCost,
			o.Surcharge,
			o.ExtrasCost,
			o.COGS,
			o.Revenue.Source,
			o.Revenue.Converted,
			o.Revenue.Fees,
			yesNo(o.Computed),
			o.Status,
			strings.Join(o.Unmapped, ", "),
			o.WarningText(),
		})
	}
	return rows
}

func countryRows(r *profit.Report) [][]any {
	counts := r.CountryCounts()
	rows := make([][]any, 0, len(counts))
	for _, c := range counts {
		name := c.Country
		if name == "" {
			name = "(none)"
		}
		rows = append(rows, []any{name, c.Orders})
	}
	return rows
}

func diagnosticRows(r *profit.Report) [][]any {
	rows := make([][]any, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		rows = append(rows, []any{d.OrderID, string(d.Kind), d.Message})
	}
	return rows
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any, bold int) {
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", last, bold)

	for row, data := range rows {
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}
}
