package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	out, err := WriteCSV(
		[]string{"Month", "Revenue"},
		[][]string{
			{"2025-01", "3250.00"},
			{"2025-02", "1000.00"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "Month,Revenue\r\n2025-01,3250.00\r\n2025-02,1000.00\r\n", out)
}

func TestWriteCSVQuotesSpecialCharacters(t *testing.T) {
	out, err := WriteCSV(
		[]string{"Client", "Invoiced"},
		[][]string{
			{`Smith, Jones & Co`, "100.00"},
			{`The "Best" Agency`, "200.00"},
			{"Multi\nLine Ltd", "300.00"},
		},
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"Smith, Jones & Co"`)
	assert.Contains(t, out, `"The ""Best"" Agency"`)
	// the writer normalizes embedded newlines to CRLF along with the
	// record terminator
	assert.Contains(t, out, "\"Multi\r\nLine Ltd\"")
}

func TestWriteCSVByteStable(t *testing.T) {
	header := []string{"A", "B"}
	rows := [][]string{{"1", "2"}, {"3", "4"}}

	first, err := WriteCSV(header, rows)
	require.NoError(t, err)
	second, err := WriteCSV(header, rows)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteCSVEmptyRows(t *testing.T) {
	out, err := WriteCSV([]string{"A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "A\r\n", out)
}
