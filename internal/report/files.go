package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"profitdash/internal/profit"
)

// TSVPath is the file the layout's rows for a product line accumulate in.
func TSVPath(dir, line string, layout profit.ExportLayout) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.tsv", strings.ToLower(line), layout.Name))
}

// WriteTSV appends the report's row to its layout file under dir. A new file
// starts with the header line.
func WriteTSV(r *profit.Report, layout profit.ExportLayout, dir string) (string, error) {
	const operation = "report.WriteTSV"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: create directory: %w", operation, err)
	}

	path := TSVPath(dir, r.Line, layout)
	_, err := os.Stat(path)
	fresh := errors.Is(err, fs.ErrNotExist)
	if err != nil && !fresh {
		return "", fmt.Errorf("%s: %w", operation, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("%s: open: %w", operation, err)
	}
	defer f.Close()

	if _, err := f.WriteString(r.TSV(layout, fresh) + "\n"); err != nil {
		return "", fmt.Errorf("%s: write: %w", operation, err)
	}
	return path, nil
}

// WorkbookPath names the workbook for a run.
func WorkbookPath(dir string, r *profit.Report, runID string) string {
	stamp := "undated"
	if r.DateRange.Valid {
		stamp = r.DateRange.From.Format("20060102")
		if !r.DateRange.To.Equal(r.DateRange.From) {
			stamp += "-" + r.DateRange.To.Format("20060102")
		}
	}
	name := fmt.Sprintf("%s_%s", strings.ToLower(r.Line), stamp)
	if runID != "" {
		name += "_" + runID
	}
	return filepath.Join(dir, name+".xlsx")
}
