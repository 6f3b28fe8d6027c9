package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"roster/internal/model"
	"roster/internal/service"
)

// maxRecordBytes caps the JSON body of a single student record.
const maxRecordBytes = 16 << 10

type StudentHandler struct {
	controller     *service.Controller
	studentService *service.StudentService
}

func NewStudentHandler(controller *service.Controller, studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{controller: controller, studentService: studentService}
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.studentService.ListStudents(r.Context(), service.ListQuery{
		Page:        page,
		Limit:       limit,
		SortBy:      query.Get("sort_by"),
		SortOrder:   query.Get("sort_order"),
		StudentName: query.Get("student_name"),
		StudentID:   query.Get("student_id"),
	})
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	rec, err := h.controller.Find(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	state := service.State{Mode: service.ModeAdd, Form: service.FormFromRecord(rec)}
	if _, err := h.controller.Submit(r.Context(), state); err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, state.Form.Normalize().Record())
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	state := service.EditingState(mux.Vars(r)["id"], service.FormFromRecord(rec))
	if _, err := h.controller.Submit(r.Context(), state); err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state.Form.Normalize().Record())
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	if _, err := h.controller.Delete(r.Context(), service.AddState(), mux.Vars(r)["id"]); err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (model.StudentRecord, bool) {
	var rec model.StudentRecord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large", Code: "bad_request"})
			return rec, false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "request body must be a student record: " + err.Error(), Code: "bad_request"})
		return rec, false
	}
	return rec, true
}
