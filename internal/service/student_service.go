package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"roster/internal/model"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery filters, sorts and pages the roster. Zero values mean
// "first page, default limit, insertion order, no filter".
type ListQuery struct {
	Page        int
	Limit       int
	SortBy      string // student_name, student_id, email, contact_number
	SortOrder   string // asc or desc
	StudentName string // case-insensitive substring
	StudentID   string // exact match
}

type ListResult struct {
	Data       []model.StudentRecord `json:"data"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	Total      int64                 `json:"total"`
	TotalPages int                   `json:"totalPages"`
}

type StudentService struct {
	controller *Controller
}

func NewStudentService(controller *Controller) *StudentService {
	return &StudentService{controller: controller}
}

func (s *StudentService) ListStudents(ctx context.Context, q ListQuery) (ListResult, error) {
	records, err := s.controller.Records(ctx)
	if err != nil {
		return ListResult{}, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	filtered := make([]model.StudentRecord, 0, len(records))
	name := strings.ToLower(strings.TrimSpace(q.StudentName))
	for _, r := range records {
		if name != "" && !strings.Contains(strings.ToLower(r.StudentName), name) {
			continue
		}
		if q.StudentID != "" && r.StudentID != q.StudentID {
			continue
		}
		filtered = append(filtered, r)
	}

	if key := sortKey(q.SortBy); key != nil {
		desc := strings.EqualFold(q.SortOrder, "desc")
		sort.SliceStable(filtered, func(i, j int) bool {
			a, b := key(filtered[i]), key(filtered[j])
			if desc {
				return a > b
			}
			return a < b
		})
	}

	total := len(filtered)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return ListResult{
		Data:       filtered[start:end],
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      int64(total),
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func sortKey(field string) func(model.StudentRecord) string {
	switch field {
	case "student_name":
		return func(r model.StudentRecord) string { return strings.ToLower(r.StudentName) }
	case "student_id":
		return func(r model.StudentRecord) string { return padDigits(r.StudentID) }
	case "email":
		return func(r model.StudentRecord) string { return strings.ToLower(r.Email) }
	case "contact_number":
		return func(r model.StudentRecord) string { return padDigits(r.ContactNumber) }
	}
	return nil
}

// padDigits left-pads a digit string so that lexical order is numeric order.
func padDigits(s string) string {
	const width = 32
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
