package customers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONLines(t *testing.T) {
	input := strings.Join([]string{
		`{"latitude": "52.986375", "user_id": 12, "name": "Christina McArdle", "longitude": "-6.043701"}`,
		`{"latitude": "51.92893", "user_id": 1, "name": "Alice Cahill", "longitude": "-10.27699"}`,
		``,
		`{"latitude": 53.2451022, "user_id": 4, "name": "Ian Kehoe", "longitude": -6.238335}`,
	}, "\n")

	result, err := ReadJSONLines(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Customers, 3)

	assert.Equal(t, Customer{UserID: 12, Name: "Christina McArdle", Latitude: 52.986375, Longitude: -6.043701}, result.Customers[0])
	assert.Equal(t, 1, result.Customers[1].UserID)
	assert.InDelta(t, 53.2451022, result.Customers[2].Latitude, 1e-12)
}

func TestReadJSONLines_EmptyNameIsKept(t *testing.T) {
	result, err := ReadJSONLines(strings.NewReader(`{"user_id": 7, "name": "", "latitude": "53.1", "longitude": "-6.2"}`))
	require.NoError(t, err)

	assert.Empty(t, result.Skipped)
	require.Len(t, result.Customers, 1)
	assert.Equal(t, Customer{UserID: 7, Name: "", Latitude: 53.1, Longitude: -6.2}, result.Customers[0])
}

func TestReadJSONLines_SkipsBadRows(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"invalid json", `{"user_id": 1, "name": `, ""},
		{"missing user id", `{"name": "A", "latitude": "1", "longitude": "2"}`, fieldUserID},
		{"fractional user id", `{"user_id": 1.5, "name": "A", "latitude": "1", "longitude": "2"}`, fieldUserID},
		{"missing name", `{"user_id": 1, "latitude": "1", "longitude": "2"}`, fieldName},
		{"missing latitude", `{"user_id": 1, "name": "A", "longitude": "2"}`, fieldLatitude},
		{"non numeric latitude", `{"user_id": 1, "name": "A", "latitude": "north", "longitude": "2"}`, fieldLatitude},
		{"latitude out of range", `{"user_id": 1, "name": "A", "latitude": "91", "longitude": "2"}`, fieldLatitude},
		{"longitude out of range", `{"user_id": 1, "name": "A", "latitude": "1", "longitude": "-180.5"}`, fieldLongitude},
		{"nan longitude", `{"user_id": 1, "name": "A", "latitude": "1", "longitude": "NaN"}`, fieldLongitude},
		{"negative user id", `{"user_id": -3, "name": "A", "latitude": "1", "longitude": "2"}`, fieldUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ReadJSONLines(strings.NewReader(tt.line))
			require.NoError(t, err)

			assert.Equal(t, 1, result.TotalRows)
			assert.Empty(t, result.Customers)
			require.Len(t, result.Skipped, 1)
			assert.Equal(t, 1, result.Skipped[0].Row)
			assert.Equal(t, tt.field, result.Skipped[0].Field)
		})
	}
}

func TestReadJSONLines_KeepsGoodRowsAroundBadOnes(t *testing.T) {
	input := "\xef\xbb\xbf" + `{"user_id": 1, "name": "A", "latitude": "53", "longitude": "-6"}` + "\n" +
		"not json\n" +
		`{"user_id": 2, "name": "B", "latitude": "54", "longitude": "-7"}` + "\n"

	result, err := ReadJSONLines(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	require.Len(t, result.Customers, 2)
	assert.Equal(t, 1, result.Customers[0].UserID)
	assert.Equal(t, 2, result.Customers[1].UserID)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 2, result.Skipped[0].Row)
}

func TestReadJSONLines_Empty(t *testing.T) {
	result, err := ReadJSONLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, result.TotalRows)
	assert.Empty(t, result.Customers)
}

func TestRowError_Error(t *testing.T) {
	assert.Equal(t, "row 3: latitude: missing", RowError{Row: 3, Field: "latitude", Message: "missing"}.Error())
	assert.Equal(t, "row 1: invalid JSON", RowError{Row: 1, Message: "invalid JSON"}.Error())
}
