package handler

import (
	"net/http"

	"roster/internal/service"
)

type ImportHandler struct {
	importService *service.ImportService
	maxBytes      int64
}

func NewImportHandler(importService *service.ImportService, maxBytes int64) *ImportHandler {
	return &ImportHandler{importService: importService, maxBytes: maxBytes}
}

// ImportCSV accepts a multipart upload with the CSV in the "file" field.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large or bad request", Code: "bad_upload"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "No file uploaded", Code: "bad_upload"})
		return
	}
	defer file.Close()

	report, err := h.importService.ImportCSV(r.Context(), file)
	if err != nil {
		respondErrorJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
