package service

import (
	"context"
	"encoding/json"
	"strings"

	"roster/internal/logging"
	"roster/internal/model"
	"roster/internal/storage"
)

// DefaultStorageKey is the key the roster payload lives under.
const DefaultStorageKey = "students"

// RecordStore reads and writes the whole roster as one serialized value.
type RecordStore struct {
	kv  storage.KV
	key string
}

func NewRecordStore(kv storage.KV, key string) *RecordStore {
	if key == "" {
		key = DefaultStorageKey
	}
	return &RecordStore{kv: kv, key: key}
}

// LoadAll returns the stored roster. A missing or unreadable payload counts
// as an empty roster; only a storage read failure is an error.
func (s *RecordStore) LoadAll(ctx context.Context) ([]model.StudentRecord, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.StudentRecord{}, nil
	}

	var records []model.StudentRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logging.FromContext(ctx).Warn("discarding unreadable roster payload", "key", s.key, "error", err)
		return []model.StudentRecord{}, nil
	}
	if records == nil {
		records = []model.StudentRecord{}
	}
	return records, nil
}

// SaveAll overwrites the stored payload with records.
func (s *RecordStore) SaveAll(ctx context.Context, records []model.StudentRecord) error {
	if records == nil {
		records = []model.StudentRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := s.kv.Set(ctx, s.key, string(payload)); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// Insert appends rec. Uniqueness is the caller's concern.
func Insert(records []model.StudentRecord, rec model.StudentRecord) []model.StudentRecord {
	out := make([]model.StudentRecord, 0, len(records)+1)
	out = append(out, records...)
	return append(out, rec)
}

// UpdateByID replaces the first record whose ID is id.
func UpdateByID(records []model.StudentRecord, id string, rec model.StudentRecord) ([]model.StudentRecord, error) {
	for i, r := range records {
		if r.StudentID == id {
			out := make([]model.StudentRecord, len(records))
			copy(out, records)
			out[i] = rec
			return out, nil
		}
	}
	return nil, &NotFoundError{StudentID: id}
}

// DeleteByID drops every record whose ID is id and reports whether any was
// removed.
func DeleteByID(records []model.StudentRecord, id string) ([]model.StudentRecord, bool) {
	out := make([]model.StudentRecord, 0, len(records))
	for _, r := range records {
		if r.StudentID != id {
			out = append(out, r)
		}
	}
	return out, len(out) != len(records)
}

func FindByID(records []model.StudentRecord, id string) (model.StudentRecord, bool) {
	for _, r := range records {
		if r.StudentID == id {
			return r, true
		}
	}
	return model.StudentRecord{}, false
}
