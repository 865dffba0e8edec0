// Package customers reads customer records from JSON-lines, CSV and XLSX
// exports and turns them into validated values for distance filtering.
//
// Malformed rows are never fatal: they are counted and reported as RowError
// values so the caller can decide what to print.
package customers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kosarica/invite-service/internal/geodesy"
)

// Customer is a single validated record.
type Customer struct {
	UserID    int     `json:"user_id" validate:"gte=0"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Coordinate returns the customer's position.
func (c Customer) Coordinate() geodesy.Coordinate {
	return geodesy.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}
}

// RowError describes a skipped input row. Row is 1-based.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ReadResult is the output of every reader.
type ReadResult struct {
	Customers []Customer `json:"customers"`
	TotalRows int        `json:"totalRows"`
	Skipped   []RowError `json:"skipped,omitempty"`
}

func newReadResult() *ReadResult {
	return &ReadResult{
		Customers: make([]Customer, 0),
		Skipped:   make([]RowError, 0),
	}
}

func (r *ReadResult) skip(row int, field, msg string) {
	r.Skipped = append(r.Skipped, RowError{Row: row, Field: field, Message: msg})
}

// Format is a supported input format.
type Format string

const (
	FormatJSONLines Format = "jsonl"
	FormatCSV       Format = "csv"
	FormatXLSX      Format = "xlsx"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json", "jsonl", "ndjson":
		return FormatJSONLines, nil
	case "csv", "tsv", "txt":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatJSONLines, nil
	}
	return ParseFormat(ext)
}

// ColumnMapping names the header of each field in tabular inputs.
// Empty entries fall back to the default aliases.
type ColumnMapping struct {
	UserID    string `json:"userId,omitempty" mapstructure:"user_id"`
	Name      string `json:"name,omitempty" mapstructure:"name"`
	Latitude  string `json:"latitude,omitempty" mapstructure:"latitude"`
	Longitude string `json:"longitude,omitempty" mapstructure:"longitude"`
}

var defaultAliases = map[string][]string{
	fieldUserID:    {"user_id", "userid", "id", "customer_id"},
	fieldName:      {"name", "customer", "full_name"},
	fieldLatitude:  {"latitude", "lat"},
	fieldLongitude: {"longitude", "lon", "lng", "long"},
}

const (
	fieldUserID    = "user_id"
	fieldName      = "name"
	fieldLatitude  = "latitude"
	fieldLongitude = "longitude"
)

func (m ColumnMapping) candidates(field string) []string {
	var explicit string
	switch field {
	case fieldUserID:
		explicit = m.UserID
	case fieldName:
		explicit = m.Name
	case fieldLatitude:
		explicit = m.Latitude
	case fieldLongitude:
		explicit = m.Longitude
	}
	if explicit != "" {
		return []string{explicit}
	}
	return defaultAliases[field]
}
