package customers

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// ReadOptions selects the reader and its settings.
type ReadOptions struct {
	Format   Format        // empty: detect from the file extension
	Encoding Encoding      // text formats only
	Columns  ColumnMapping // tabular formats only
	Sheet    string        // XLSX only
}

// ReadFile reads customers from path.
func ReadFile(path string, opts ReadOptions) (*ReadResult, error) {
	if opts.Format == "" {
		format, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		opts.Format = format
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := ReadBytes(content, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("file", path).
		Str("format", string(opts.Format)).
		Int("total", result.TotalRows).
		Int("valid", len(result.Customers)).
		Int("skipped", len(result.Skipped)).
		Msg("Read customers")

	return result, nil
}

// ReadBytes parses content that is already in memory.
func ReadBytes(content []byte, opts ReadOptions) (*ReadResult, error) {
	switch opts.Format {
	case FormatJSONLines, "":
		decoded, err := Decode(content, opts.Encoding)
		if err != nil {
			return nil, err
		}
		return ReadJSONLines(bytes.NewReader(decoded))
	case FormatCSV:
		return ReadCSV(content, CSVOptions{Encoding: opts.Encoding, Columns: opts.Columns})
	case FormatXLSX:
		return ReadXLSX(content, XLSXOptions{Sheet: opts.Sheet, Columns: opts.Columns})
	default:
		return nil, fmt.Errorf("unsupported format: %q", opts.Format)
	}
}

// Read consumes r. JSON lines are streamed; tabular formats are buffered.
func Read(r io.Reader, opts ReadOptions) (*ReadResult, error) {
	if opts.Format == FormatJSONLines || opts.Format == "" {
		return ReadJSONLines(ToUTF8Reader(r, opts.Encoding))
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return ReadBytes(content, opts)
}
