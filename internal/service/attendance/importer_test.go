package attendance

import (
	"bytes"
	"testing"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMapColumnsVendorAliases(t *testing.T) {
	cases := []struct {
		name   string
		header []string
	}{
		{"canonical", []string{"Personnel ID", "Date And Time", "Device Name", "Event Point"}},
		{"short", []string{"ID", "Timestamp", "Terminal", "Type"}},
		{"badge", []string{"Badge", "DateTime", "Device", "Event"}},
		{"whitespace and case", []string{"  employee id ", " TIME ", "device", "type"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := mapColumns(tc.header)
			require.NoError(t, err)
			assert.Equal(t, 0, m.employeeNumber)
			assert.Equal(t, 1, m.timestamp)
			assert.Equal(t, 2, m.device)
			assert.Equal(t, 3, m.eventPoint)
		})
	}
}

func TestMapColumnsMissingRequired(t *testing.T) {
	_, err := mapColumns([]string{"Device Name", "Event Point"})
	assert.ErrorIs(t, err, punch.ErrMissingColumns)

	_, err = mapColumns([]string{"Personnel ID", "Device Name"})
	assert.ErrorIs(t, err, punch.ErrMissingColumns)
}

func TestParseTimestampLayouts(t *testing.T) {
	loc := time.UTC
	for _, s := range []string{
		"2025-06-02 09:15:00",
		"2025-06-02 09:15",
		"2025/06/02 09:15",
		"02/06/2025 09:15",
		"02-06-2025 09:15:00",
	} {
		ts, err := parseTimestamp(s, loc)
		require.NoError(t, err, s)
		assert.Equal(t, 9, ts.Hour())
		assert.Equal(t, 15, ts.Minute())
	}

	_, err := parseTimestamp("June 2nd 2025", loc)
	assert.Error(t, err)
}

func TestParseUploadCSV(t *testing.T) {
	csvData := []byte("Personnel ID,Date And Time,Device Name,Event Point\n" +
		"1001,2025-06-02 09:00,Gate A,IN\n" +
		"1001,2025-06-02 17:05,Gate A,OUT\n" +
		",2025-06-02 09:00,Gate A,IN\n" +
		"1002,not a date,Gate B,IN\n")

	rows, badRows, err := parseUpload(csvData, time.UTC)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, badRows)

	assert.Equal(t, "1001", rows[0].EmployeeNumber)
	require.NotNil(t, rows[0].Device)
	assert.Equal(t, "Gate A", *rows[0].Device)
	require.NotNil(t, rows[1].EventPoint)
	assert.Equal(t, "OUT", *rows[1].EventPoint)
}

func TestParseUploadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Badge", "Timestamp"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"2001", "2025-06-02 08:58"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, badRows, err := parseUpload(buf.Bytes(), time.UTC)
	require.NoError(t, err)
	assert.Zero(t, badRows)
	require.Len(t, rows, 1)
	assert.Equal(t, "2001", rows[0].EmployeeNumber)
	assert.Equal(t, 8, rows[0].Timestamp.Hour())
}

func TestParseUploadEmpty(t *testing.T) {
	_, _, err := parseUpload([]byte("Personnel ID,Timestamp\n"), time.UTC)
	assert.ErrorIs(t, err, punch.ErrEmptyUpload)
}
