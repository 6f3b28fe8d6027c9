package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roster/internal/model"
	"roster/internal/storage"
)

// MockKV lets tests fail individual storage calls.
type MockKV struct {
	mock.Mock
}

func (m *MockKV) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKV) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func ann() model.StudentRecord {
	return model.StudentRecord{StudentName: "Ann Lee", StudentID: "101", Email: "a@b.com", ContactNumber: "1234567890"}
}

func bob() model.StudentRecord {
	return model.StudentRecord{StudentName: "Bob Stone", StudentID: "202", Email: "bob@school.org", ContactNumber: "9876543210"}
}

func newTestController(t *testing.T, seed ...model.StudentRecord) (*Controller, *RecordStore) {
	t.Helper()
	store := NewRecordStore(storage.NewMemory(), DefaultStorageKey)
	if len(seed) > 0 {
		require.NoError(t, store.SaveAll(context.Background(), seed))
	}
	return NewController(store), store
}

func loadAll(t *testing.T, store *RecordStore) []model.StudentRecord {
	t.Helper()
	records, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	return records
}
