package customers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	content := []byte("user_id,name,latitude,longitude\n" +
		"12,Christina McArdle,52.986375,-6.043701\n" +
		"\n" +
		"8,\"Eoin, Ahearn\",54.0894797,-6.18671\n" +
		"x,Broken,1,2\n")

	result, err := ReadCSV(content, CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	require.Len(t, result.Customers, 2)
	assert.Equal(t, "Christina McArdle", result.Customers[0].Name)
	assert.Equal(t, "Eoin, Ahearn", result.Customers[1].Name)
	assert.Equal(t, 8, result.Customers[1].UserID)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 5, result.Skipped[0].Row)
	assert.Equal(t, fieldUserID, result.Skipped[0].Field)
}

func TestReadCSV_SemicolonAndAliases(t *testing.T) {
	content := []byte("ID;Customer;Lat;Lng\r\n1;Alice;53.1;-6.2\r\n2;Bob;53.2;-6.3\r\n")

	result, err := ReadCSV(content, CSVOptions{})
	require.NoError(t, err)

	require.Len(t, result.Customers, 2)
	assert.Equal(t, Customer{UserID: 2, Name: "Bob", Latitude: 53.2, Longitude: -6.3}, result.Customers[1])
}

func TestReadCSV_ExplicitColumns(t *testing.T) {
	content := []byte("cust,who,y,x\n7,Carol,52.5,-7.5\n")

	_, err := ReadCSV(content, CSVOptions{})
	require.Error(t, err)

	result, err := ReadCSV(content, CSVOptions{
		Columns: ColumnMapping{UserID: "cust", Name: "who", Latitude: "y", Longitude: "x"},
	})
	require.NoError(t, err)
	require.Len(t, result.Customers, 1)
	assert.Equal(t, 7, result.Customers[0].UserID)
	assert.Equal(t, -7.5, result.Customers[0].Longitude)
}

func TestReadCSV_Windows1252(t *testing.T) {
	content := []byte("user_id,name,latitude,longitude\n1,Se\xe1n \xd3 Briain,53.1,-6.2\n")

	result, err := ReadCSV(content, CSVOptions{})
	require.NoError(t, err)
	require.Len(t, result.Customers, 1)
	assert.Equal(t, "Seán Ó Briain", result.Customers[0].Name)
}

func TestReadCSV_EmptyNameCell(t *testing.T) {
	content := []byte("user_id,name,latitude,longitude\n3,,53.1,-6.2\n")

	result, err := ReadCSV(content, CSVOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Customers, 1)
	assert.Equal(t, Customer{UserID: 3, Latitude: 53.1, Longitude: -6.2}, result.Customers[0])
}

func TestReadCSV_IntegerLikeIDs(t *testing.T) {
	content := []byte("user_id,name,latitude,longitude\n12.0,Dee,53,-6\n")

	result, err := ReadCSV(content, CSVOptions{})
	require.NoError(t, err)
	require.Len(t, result.Customers, 1)
	assert.Equal(t, 12, result.Customers[0].UserID)
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Delimiter
	}{
		{"comma", "a,b,c\n1,2,3\n", DelimiterComma},
		{"semicolon", "a;b;c\n1;2;3\n", DelimiterSemicolon},
		{"tab", "a\tb\tc\n1\t2\t3\n", DelimiterTab},
		{"empty", "", DelimiterComma},
		{"single column", "a\nb\n", DelimiterComma},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.content))
		})
	}
}

func TestSplitCSVLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"say ""hi""", x`, []string{`say "hi"`, "x"}},
		{`a,,c`, []string{"a", "", "c"}},
		{`Seán, Ó`, []string{"Seán", "Ó"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCSVLine(tt.line, ',', '"'))
		})
	}
}
