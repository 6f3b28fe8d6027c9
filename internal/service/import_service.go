package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"roster/internal/logging"
	"roster/internal/model"
)

// CSVHeader is the column order written by ExportCSV and assumed by
// ImportCSV when a file's header names are not recognized.
var CSVHeader = []string{"studentName", "studentId", "email", "contactNumber"}

// RowIssue describes a CSV row that was not imported.
type RowIssue struct {
	Line      int    `json:"line"`
	StudentID string `json:"studentId,omitempty"`
	Reason    Reason `json:"reason"`
	Message   string `json:"message"`
}

// ImportReport summarizes one CSV import.
type ImportReport struct {
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Skipped  []RowIssue    `json:"skipped"`
	Duration time.Duration `json:"-"`
}

type ImportService struct {
	controller *Controller
}

func NewImportService(controller *Controller) *ImportService {
	return &ImportService{controller: controller}
}

// ImportCSV validates every row of r and appends the accepted rows to the
// roster in a single write. Malformed CSV aborts the import with nothing
// stored.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (ImportReport, error) {
	start := time.Now()
	report := ImportReport{Skipped: []RowIssue{}}

	forms, err := readForms(r)
	if err != nil {
		return report, err
	}
	report.Total = len(forms)

	err = s.controller.mutate(ctx, func(records []model.StudentRecord) ([]model.StudentRecord, bool, error) {
		next := records
		for _, row := range forms {
			form := row.form.Normalize()
			if err := Validate(form); err != nil {
				report.Skipped = append(report.Skipped, issue(row.line, form.StudentID, err))
				continue
			}
			if err := CheckUnique(next, form.StudentID, ""); err != nil {
				report.Skipped = append(report.Skipped, issue(row.line, form.StudentID, err))
				continue
			}
			next = Insert(next, form.Record())
			report.Imported++
		}
		return next, report.Imported > 0, nil
	})
	report.Duration = time.Since(start)
	if err != nil {
		report.Imported = 0
		return report, err
	}

	logging.FromContext(ctx).Info("csv import finished",
		"total", report.Total,
		"imported", report.Imported,
		"skipped", len(report.Skipped),
		"duration", report.Duration,
	)
	return report, nil
}

// ExportCSV writes records with a CSVHeader header row.
func ExportCSV(w io.Writer, records []model.StudentRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.StudentName, r.StudentID, r.Email, r.ContactNumber}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type csvRow struct {
	line int
	form Form
}

func readForms(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, malformed(err)
	}
	columns := columnIndex(header)

	var rows []csvRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, csvRow{line: line, form: Form{
			StudentName:   field(record, columns[0]),
			StudentID:     field(record, columns[1]),
			Email:         field(record, columns[2]),
			ContactNumber: field(record, columns[3]),
		}})
	}
	return rows, nil
}

// columnIndex maps CSVHeader positions to the file's columns, by name when
// the header carries every known name and positionally otherwise.
func columnIndex(header []string) [4]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var idx [4]int
	for i, name := range CSVHeader {
		pos, ok := byName[strings.ToLower(name)]
		if !ok {
			return [4]int{0, 1, 2, 3}
		}
		idx[i] = pos
	}
	return idx
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func issue(line int, id string, err error) RowIssue {
	return RowIssue{Line: line, StudentID: id, Reason: ReasonOf(err), Message: err.Error()}
}

func malformed(err error) error {
	return &ValidationError{Reason: ReasonMalformed, Message: fmt.Sprintf("CSV could not be read: %v", err)}
}
