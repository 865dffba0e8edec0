package customers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the user id and coordinate ranges. An empty name is allowed.
// NaN coordinates fail the range checks.
func Validate(c Customer) error {
	return validate.Struct(c)
}

// rowErrorFrom converts a validation failure into a RowError.
func rowErrorFrom(row int, err error) RowError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return RowError{
			Row:     row,
			Field:   jsonFieldName(fe.Field()),
			Message: fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return RowError{Row: row, Message: err.Error()}
}

func jsonFieldName(structField string) string {
	switch structField {
	case "UserID":
		return fieldUserID
	case "Name":
		return fieldName
	case "Latitude":
		return fieldLatitude
	case "Longitude":
		return fieldLongitude
	default:
		return strings.ToLower(structField)
	}
}

// buildCustomer parses raw text fields shared by the tabular readers.
func buildCustomer(row int, id, name, lat, lon string) (Customer, *RowError) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id == "" {
		return Customer{}, &RowError{Row: row, Field: fieldUserID, Message: "missing"}
	}
	userID, err := parseUserID(id)
	if err != nil {
		return Customer{}, &RowError{Row: row, Field: fieldUserID, Message: err.Error()}
	}

	latitude, err := parseCoordinate(lat)
	if err != nil {
		return Customer{}, &RowError{Row: row, Field: fieldLatitude, Message: err.Error()}
	}
	longitude, err := parseCoordinate(lon)
	if err != nil {
		return Customer{}, &RowError{Row: row, Field: fieldLongitude, Message: err.Error()}
	}

	c := Customer{UserID: userID, Name: name, Latitude: latitude, Longitude: longitude}
	if err := Validate(c); err != nil {
		re := rowErrorFrom(row, err)
		return Customer{}, &re
	}
	return c, nil
}

func parseUserID(s string) (int, error) {
	// Spreadsheets often store integer ids as "12.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("not an integer: %q", s)
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}
