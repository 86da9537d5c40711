// Package dataset reads order exports into a profit.Table.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"profitdash/internal/profit"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a CSV or XLSX order export, chosen by file extension.
func Load(path string) (profit.Table, error) {
	const operation = "dataset.Load"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return profit.Table{}, fmt.Errorf("%s: %w", operation, err)
		}
		comma := ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			comma = '\t'
		}
		t, err := ReadCSV(bytes.NewReader(b), comma)
		if err != nil {
			return profit.Table{}, fmt.Errorf("%s: %s: %w", operation, path, err)
		}
		return t, nil
	case ".xlsx", ".xlsm":
		t, err := LoadXLSX(path, "")
		if err != nil {
			return profit.Table{}, fmt.Errorf("%s: %w", operation, err)
		}
		return t, nil
	default:
		return profit.Table{}, fmt.Errorf("%s: %s: %w", operation, path, ErrUnsupportedFormat)
	}
}

// ReadCSV reads a delimited export with a header row. Short records are
// padded with empty values.
func ReadCSV(r io.Reader, comma rune) (profit.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return profit.Table{}, err
	}
	b = bytes.TrimPrefix(b, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(b))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return profit.Table{}, nil
	}
	if err != nil {
		return profit.Table{}, fmt.Errorf("read header: %w", err)
	}
	headers = trimHeaders(headers)

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return profit.Table{}, fmt.Errorf("read record: %w", err)
		}
		rows = append(rows, record(headers, rec))
	}
	return profit.Table{Headers: headers, Rows: rows}, nil
}

// LoadXLSX reads the named sheet, or the first sheet when sheet is empty.
func LoadXLSX(path, sheet string) (profit.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return profit.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return profit.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return profit.Table{}, nil
	}

	headers := trimHeaders(rows[0])
	out := make([]map[string]string, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		if blank(rec) {
			continue
		}
		out = append(out, record(headers, rec))
	}
	return profit.Table{Headers: headers, Rows: out}, nil
}

func record(headers, rec []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(rec) {
			row[h] = rec[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

func trimHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
