package customers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxLineBytes bounds a single JSON line.
const maxLineBytes = 1 << 20

// flexNumber accepts a JSON number or a string holding one.
type flexNumber struct {
	raw string
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.raw = strings.TrimSpace(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected number or numeric string: %w", err)
	}
	n.raw = num.String()
	return nil
}

type jsonCustomer struct {
	UserID    *flexNumber `json:"user_id"`
	Name      *string     `json:"name"`
	Latitude  *flexNumber `json:"latitude"`
	Longitude *flexNumber `json:"longitude"`
}

// ReadJSONLines reads one JSON object per line. Blank lines are ignored and
// lines that fail to decode or validate are skipped.
func ReadJSONLines(r io.Reader) (*ReadResult, error) {
	result := newReadResult()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if lineNo == 1 {
			line = bytes.TrimPrefix(line, utf8BOM)
		}
		if len(line) == 0 {
			continue
		}
		result.TotalRows++

		var raw jsonCustomer
		if err := json.Unmarshal(line, &raw); err != nil {
			log.Debug().Int("line", lineNo).Err(err).Msg("Skipping undecodable line")
			result.skip(lineNo, "", "invalid JSON: "+err.Error())
			continue
		}

		c, rowErr := raw.toCustomer(lineNo)
		if rowErr != nil {
			log.Debug().Int("line", lineNo).Str("field", rowErr.Field).Msg(rowErr.Message)
			result.Skipped = append(result.Skipped, *rowErr)
			continue
		}
		result.Customers = append(result.Customers, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSON lines: %w", err)
	}

	return result, nil
}

func (j jsonCustomer) toCustomer(row int) (Customer, *RowError) {
	if j.UserID == nil || j.UserID.raw == "" {
		return Customer{}, &RowError{Row: row, Field: fieldUserID, Message: "missing"}
	}
	if j.Name == nil {
		return Customer{}, &RowError{Row: row, Field: fieldName, Message: "missing"}
	}
	lat, lon := "", ""
	if j.Latitude != nil {
		lat = j.Latitude.raw
	}
	if j.Longitude != nil {
		lon = j.Longitude.raw
	}
	return buildCustomer(row, j.UserID.raw, *j.Name, lat, lon)
}
