package customers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXOptions configures ReadXLSX.
type XLSXOptions struct {
	Sheet   string        `json:"sheet,omitempty"` // empty: first sheet
	Columns ColumnMapping `json:"columns,omitempty"`
}

// ReadXLSX parses a workbook whose selected sheet has a header row.
func ReadXLSX(content []byte, opts XLSXOptions) (*ReadResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := selectSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}

	result := newReadResult()

	headerIdx := -1
	for i, row := range rows {
		if !isEmptyRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return result, nil
	}

	indices, err := resolveColumns(rows[headerIdx], opts.Columns)
	if err != nil {
		return nil, err
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowNumber := i + 1
		result.TotalRows++

		c, rowErr := buildCustomer(rowNumber,
			cell(row, indices[fieldUserID]),
			cell(row, indices[fieldName]),
			cell(row, indices[fieldLatitude]),
			cell(row, indices[fieldLongitude]),
		)
		if rowErr != nil {
			result.Skipped = append(result.Skipped, *rowErr)
			continue
		}
		result.Customers = append(result.Customers, c)
	}

	return result, nil
}

func selectSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (available: %s)", name, strings.Join(sheets, ", "))
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
