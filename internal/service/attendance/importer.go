package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sahl-hr/attendance-backend-go/internal/domain/punch"
	"github.com/xuri/excelize/v2"
)

// Column aliases accepted in uploads, matched case-insensitively after
// trimming. Biometric vendors disagree on header naming.
var (
	employeeNumberAliases = []string{
		"personnel id", "employee id", "id", "badge",
		"employee_number", "employee number", "employee no", "emp no",
	}
	timestampAliases = []string{
		"date and time", "datetime", "timestamp", "time",
		"date_time", "punch time",
	}
	deviceAliases = []string{
		"device name", "device", "terminal",
	}
	eventPointAliases = []string{
		"event point", "event", "type", "event_point",
	}
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
}

type columnMap struct {
	employeeNumber int
	timestamp      int
	device         int
	eventPoint     int
}

func mapColumns(header []string) (columnMap, error) {
	m := columnMap{employeeNumber: -1, timestamp: -1, device: -1, eventPoint: -1}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case m.employeeNumber < 0 && matchesAlias(name, employeeNumberAliases):
			m.employeeNumber = i
		case m.timestamp < 0 && matchesAlias(name, timestampAliases):
			m.timestamp = i
		case m.device < 0 && matchesAlias(name, deviceAliases):
			m.device = i
		case m.eventPoint < 0 && matchesAlias(name, eventPointAliases):
			m.eventPoint = i
		}
	}
	if m.employeeNumber < 0 || m.timestamp < 0 {
		return columnMap{}, punch.ErrMissingColumns
	}
	return m, nil
}

func matchesAlias(name string, aliases []string) bool {
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseUpload extracts import rows from workbook or CSV bytes. XLSX is
// detected by its zip signature, everything else parses as CSV.
func parseUpload(data []byte, loc *time.Location) ([]punch.ImportRow, int, error) {
	var records [][]string
	if bytes.HasPrefix(data, []byte("PK")) {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", punch.ErrUnsupportedFmt, err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, 0, punch.ErrEmptyUpload
		}
		records, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read worksheet: %w", err)
		}
	} else {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.FieldsPerRecord = -1
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %v", punch.ErrUnsupportedFmt, err)
			}
			records = append(records, record)
		}
	}

	if len(records) < 2 {
		return nil, 0, punch.ErrEmptyUpload
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, 0, err
	}

	var rows []punch.ImportRow
	badRows := 0
	for _, record := range records[1:] {
		if cols.employeeNumber >= len(record) || cols.timestamp >= len(record) {
			badRows++
			continue
		}
		number := strings.TrimSpace(record[cols.employeeNumber])
		if number == "" {
			badRows++
			continue
		}
		ts, err := parseTimestamp(record[cols.timestamp], loc)
		if err != nil {
			badRows++
			continue
		}
		row := punch.ImportRow{EmployeeNumber: number, Timestamp: ts}
		if cols.device >= 0 && cols.device < len(record) {
			if v := strings.TrimSpace(record[cols.device]); v != "" {
				row.Device = &v
			}
		}
		if cols.eventPoint >= 0 && cols.eventPoint < len(record) {
			if v := strings.TrimSpace(record[cols.eventPoint]); v != "" {
				row.EventPoint = &v
			}
		}
		rows = append(rows, row)
	}
	return rows, badRows, nil
}

// ImportPunches ingests an uploaded workbook or CSV: unknown employee
// numbers become placeholder employees, duplicate punches are skipped,
// and every touched (employee, date) is re-derived afterwards.
func (s *AttendanceServiceImpl) ImportPunches(ctx context.Context, data []byte) (punch.ImportSummary, error) {
	rows, badRows, err := parseUpload(data, s.loc)
	if err != nil {
		return punch.ImportSummary{}, err
	}

	summary := punch.ImportSummary{Errors: badRows}
	employees := make(map[string]employee.Employee)
	type empDate struct {
		employeeID string
		date       time.Time
	}
	touched := make(map[empDate]struct{})
	uniqueDates := make(map[time.Time]struct{})

	for _, row := range rows {
		emp, ok := employees[row.EmployeeNumber]
		if !ok {
			emp, err = s.EmployeeRepository.GetByNumber(ctx, row.EmployeeNumber)
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				emp, err = s.EmployeeRepository.Create(ctx, employee.Employee{
					EmployeeNumber: row.EmployeeNumber,
					FullName:       row.EmployeeNumber,
					IsActive:       true,
					IsPlaceholder:  true,
				})
				if err == nil {
					summary.NewEmployees++
				}
			}
			if err != nil {
				s.logger.Warn("Skipping punch row, employee lookup failed",
					"employee_number", row.EmployeeNumber, "error", err)
				summary.Errors++
				continue
			}
			employees[row.EmployeeNumber] = emp
		}

		_, err := s.PunchRepository.Create(ctx, punch.PunchEvent{
			EmployeeID: emp.ID,
			Timestamp:  row.Timestamp,
			Device:     row.Device,
			EventPoint: row.EventPoint,
			IsActive:   true,
		})
		if err != nil {
			if errors.Is(err, punch.ErrDuplicatePunch) {
				summary.Duplicates++
				continue
			}
			s.logger.Warn("Failed to store punch", "employee_number", row.EmployeeNumber, "error", err)
			summary.Errors++
			continue
		}
		summary.NewRecords++

		date := dateOnly(row.Timestamp)
		touched[empDate{employeeID: emp.ID, date: date}] = struct{}{}
		uniqueDates[date] = struct{}{}
	}
	summary.UniqueDates = len(uniqueDates)

	for key := range touched {
		if err := s.Recompute(ctx, key.employeeID, key.date); err != nil {
			s.logger.Error("Post-import recompute failed",
				"employee_id", key.employeeID, "date", key.date.Format("2006-01-02"), "error", err)
			summary.Errors++
		}
	}
	return summary, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
