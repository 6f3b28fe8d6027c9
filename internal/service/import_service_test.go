package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roster/internal/model"
	"roster/internal/storage"
)

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t, ann())

	csvData := strings.Join([]string{
		"studentName,studentId,email,contactNumber",
		"Bob Stone,202,bob@school.org,9876543210",
		"Dup Ann,101,dup@school.org,1234567890",
		"Carl,303,carl-at-school,1234567890",
		"Dana,404,dana@school.org,12345",
		"Eve Moss,202,eve@school.org,5555555555",
		"Finn,505,finn@school.org,5555555555",
	}, "\n")

	report, err := NewImportService(c).ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Skipped, 4)
	assert.Equal(t, RowIssue{Line: 3, StudentID: "101", Reason: ReasonDuplicateID, Message: "Student ID 101 already exists."}, report.Skipped[0])
	assert.Equal(t, ReasonEmail, report.Skipped[1].Reason)
	assert.Equal(t, 4, report.Skipped[1].Line)
	assert.Equal(t, ReasonContact, report.Skipped[2].Reason)
	assert.Equal(t, ReasonDuplicateID, report.Skipped[3].Reason)
	assert.Equal(t, 6, report.Skipped[3].Line)

	ids := []string{}
	for _, r := range loadAll(t, store) {
		ids = append(ids, r.StudentID)
	}
	assert.Equal(t, []string{"101", "202", "505"}, ids)
}

func TestImportCSVHeaderByName(t *testing.T) {
	ctx := context.Background()
	c, store := newTestController(t)

	csvData := "email, contactNumber, studentId, studentName\na@b.com,1234567890,101,Ann Lee\n"
	report, err := NewImportService(c).ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, []model.StudentRecord{ann()}, loadAll(t, store))
}

func TestImportCSVShortRow(t *testing.T) {
	c, store := newTestController(t)

	report, err := NewImportService(c).ImportCSV(context.Background(), strings.NewReader("name,id,email,contact\nAnn Lee,101\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, ReasonRequired, report.Skipped[0].Reason)
	assert.Empty(t, loadAll(t, store))
}

func TestImportCSVMalformed(t *testing.T) {
	c, store := newTestController(t, ann())

	_, err := NewImportService(c).ImportCSV(context.Background(), strings.NewReader("a,b,c,d\n\"Bob,202,bob@x.com,1234567890\n"))
	require.Error(t, err)
	assert.Equal(t, ReasonMalformed, ReasonOf(err))
	assert.Equal(t, []model.StudentRecord{ann()}, loadAll(t, store))
}

func TestImportCSVEmpty(t *testing.T) {
	c, _ := newTestController(t)
	report, err := NewImportService(c).ImportCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Skipped)
}

func TestImportCSVWritesOnce(t *testing.T) {
	kv := new(MockKV)
	kv.On("Get", mock.Anything, DefaultStorageKey).Return("", false, nil)
	kv.On("Set", mock.Anything, DefaultStorageKey, mock.Anything).Return(nil)
	c := NewController(NewRecordStore(kv, ""))

	csvData := "studentName,studentId,email,contactNumber\nAnn Lee,101,a@b.com,1234567890\nBob Stone,202,bob@school.org,9876543210\n"
	report, err := NewImportService(c).ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	kv.AssertNumberOfCalls(t, "Set", 1)
}

func TestImportCSVPersistenceFailure(t *testing.T) {
	kv := new(MockKV)
	kv.On("Get", mock.Anything, DefaultStorageKey).Return("", false, nil)
	kv.On("Set", mock.Anything, DefaultStorageKey, mock.Anything).Return(storage.ErrUnavailable)
	c := NewController(NewRecordStore(kv, ""))

	report, err := NewImportService(c).ImportCSV(context.Background(), strings.NewReader("studentName,studentId,email,contactNumber\nAnn Lee,101,a@b.com,1234567890\n"))
	assert.True(t, IsPersistence(err))
	assert.Equal(t, 0, report.Imported)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	records := []model.StudentRecord{ann(), bob()}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), "studentName,studentId,email,contactNumber\n"))

	c, store := newTestController(t)
	report, err := NewImportService(c).ImportCSV(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, records, loadAll(t, store))
}
