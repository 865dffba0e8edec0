package customers

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Delimiter is a CSV field separator.
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
)

// CSVOptions configures ReadCSV. Zero values mean auto-detect / defaults.
type CSVOptions struct {
	Delimiter Delimiter     `json:"delimiter,omitempty"`
	Encoding  Encoding      `json:"encoding,omitempty"`
	Columns   ColumnMapping `json:"columns,omitempty"`
	QuoteChar rune          `json:"quoteChar,omitempty"`
}

// ReadCSV parses a delimited file with a header row.
func ReadCSV(content []byte, opts CSVOptions) (*ReadResult, error) {
	if opts.QuoteChar == 0 {
		opts.QuoteChar = '"'
	}

	decoded, err := Decode(content, opts.Encoding)
	if err != nil {
		return nil, err
	}
	text := string(decoded)

	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(text)
	}
	delim, _ := utf8.DecodeRuneInString(string(opts.Delimiter))

	result := newReadResult()

	lines := splitLines(text)
	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return result, nil
	}

	headers := SplitCSVLine(lines[headerIdx], delim, opts.QuoteChar)
	indices, err := resolveColumns(headers, opts.Columns)
	if err != nil {
		return nil, err
	}

	for i := headerIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		rowNumber := i + 1
		result.TotalRows++

		fields := SplitCSVLine(lines[i], delim, opts.QuoteChar)
		c, rowErr := buildCustomer(rowNumber,
			cell(fields, indices[fieldUserID]),
			cell(fields, indices[fieldName]),
			cell(fields, indices[fieldLatitude]),
			cell(fields, indices[fieldLongitude]),
		)
		if rowErr != nil {
			result.Skipped = append(result.Skipped, *rowErr)
			continue
		}
		result.Customers = append(result.Customers, c)
	}

	return result, nil
}

// DetectDelimiter picks the delimiter whose per-line count is the most
// consistent across the first few non-empty lines.
func DetectDelimiter(content string) Delimiter {
	sampleLines := make([]string, 0, 5)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			sampleLines = append(sampleLines, trimmed)
			if len(sampleLines) >= 5 {
				break
			}
		}
	}
	if len(sampleLines) == 0 {
		return DelimiterComma
	}

	best := DelimiterComma
	maxConsistency := 0.0

	for _, delim := range []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab} {
		counts := make([]int, 0, len(sampleLines))
		sum := 0
		for _, line := range sampleLines {
			n := strings.Count(line, string(delim))
			counts = append(counts, n)
			sum += n
		}

		avg := float64(sum) / float64(len(counts))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, n := range counts {
			diff := float64(n) - avg
			variance += diff * diff
		}
		variance /= float64(len(counts))

		consistency := avg / (1.0 + variance)
		if consistency > maxConsistency {
			maxConsistency = consistency
			best = delim
		}
	}

	return best
}

// SplitCSVLine splits a line honouring quoted fields and doubled quotes.
func SplitCSVLine(line string, delimiter rune, quoteChar rune) []string {
	fields := make([]string, 0, 4)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); {
		r, width := utf8.DecodeRuneInString(line[i:])
		i += width

		if inQuotes {
			if r == quoteChar {
				if next, w := utf8.DecodeRuneInString(line[i:]); i < len(line) && next == quoteChar {
					current.WriteRune(quoteChar)
					i += w
					continue
				}
				inQuotes = false
				continue
			}
			current.WriteRune(r)
			continue
		}

		switch r {
		case quoteChar:
			inQuotes = true
		case delimiter:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}

// resolveColumns maps each field to its header index, case-insensitively.
func resolveColumns(headers []string, mapping ColumnMapping) (map[string]int, error) {
	indices := make(map[string]int, 4)
	for _, field := range []string{fieldUserID, fieldName, fieldLatitude, fieldLongitude} {
		idx := -1
		for _, candidate := range mapping.candidates(field) {
			for i, h := range headers {
				if strings.EqualFold(strings.TrimSpace(h), candidate) {
					idx = i
					break
				}
			}
			if idx != -1 {
				break
			}
		}
		if idx == -1 {
			return nil, fmt.Errorf("column for field %q not found in headers %v", field, headers)
		}
		indices[field] = idx
	}
	return indices, nil
}

func cell(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}
