package handler

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"roster/internal/service"
	"roster/internal/view"
)

// Options configures NewRouter.
type Options struct {
	AllowedOrigins []string
	MaxImportBytes int64
}

// NewRouter wires the page, the JSON API and the static assets around one
// controller and wraps them with request IDs, logging, recovery and CORS.
func NewRouter(controller *service.Controller, renderer *view.Renderer, opts Options) http.Handler {
	if opts.MaxImportBytes <= 0 {
		opts.MaxImportBytes = 10 << 20
	}

	rosterHandler := NewRosterHandler(controller, renderer)
	studentHandler := NewStudentHandler(controller, service.NewStudentService(controller))
	importHandler := NewImportHandler(service.NewImportService(controller), opts.MaxImportBytes)

	r := mux.NewRouter()
	r.Use(RequestID, Logger)

	r.HandleFunc("/", rosterHandler.ShowPage).Methods(http.MethodGet)
	r.HandleFunc("/", rosterHandler.HandleAction).Methods(http.MethodPost)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", view.StaticHandler()))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/students", studentHandler.ListStudents).Methods(http.MethodGet)
	api.HandleFunc("/students", studentHandler.CreateStudent).Methods(http.MethodPost)
	api.HandleFunc("/students/import", importHandler.ImportCSV).Methods(http.MethodPost)
	api.HandleFunc("/students/{id}", studentHandler.GetStudent).Methods(http.MethodGet)
	api.HandleFunc("/students/{id}", studentHandler.UpdateStudent).Methods(http.MethodPut)
	api.HandleFunc("/students/{id}", studentHandler.DeleteStudent).Methods(http.MethodDelete)

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
	if len(opts.AllowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(opts.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
			handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		)(h)
	}
	return h
}
