package handler

import (
	"net/http"
	"net/url"

	"roster/internal/logging"
	"roster/internal/model"
	"roster/internal/service"
	"roster/internal/view"
)

// RosterHandler serves the form-and-table page. The page is a single form:
// hidden inputs carry the controller state and the pressed control names
// the action, so one POST handler dispatches every click.
type RosterHandler struct {
	controller *service.Controller
	view       *view.Renderer
}

func NewRosterHandler(controller *service.Controller, renderer *view.Renderer) *RosterHandler {
	return &RosterHandler{controller: controller, view: renderer}
}

func (h *RosterHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, service.AddState(), nil)
}

func (h *RosterHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form submission", http.StatusBadRequest)
		return
	}
	form := r.PostForm
	state := StateFromValues(form)
	ctx := r.Context()

	var (
		next  service.State
		err   error
		alert *view.Alert
	)
	switch {
	case form.Has("edit"):
		next, err = h.controller.Edit(ctx, state, form.Get("edit"))
	case form.Has("delete"):
		id := form.Get("delete")
		next, err = h.controller.Delete(ctx, state, id)
		alert = view.SuccessAlert("Student " + id + " is not in the roster.")
	case form.Has("cancel"):
		next = h.controller.Cancel(state)
	default:
		next, err = h.controller.Submit(ctx, state)
		if state.IsEditing() {
			alert = view.SuccessAlert("Student updated.")
		} else {
			alert = view.SuccessAlert("Student added.")
		}
	}

	if err != nil {
		status, code := statusFor(err)
		logError(r, err, status, code)
		h.render(w, r, status, next, view.ErrorAlert(userMessage(err)))
		return
	}
	h.render(w, r, http.StatusOK, next, alert)
}

// StateFromValues rebuilds the controller state posted back by the page.
func StateFromValues(v url.Values) service.State {
	state := service.State{
		Mode:     service.ParseMode(v.Get("mode")),
		TargetID: v.Get("target_id"),
		Form: service.Form{
			StudentName:   v.Get("studentName"),
			StudentID:     v.Get("studentId"),
			Email:         v.Get("email"),
			ContactNumber: v.Get("contactNumber"),
		},
	}
	if state.Mode != service.ModeEditing {
		state.TargetID = ""
	}
	return state
}

func (h *RosterHandler) render(w http.ResponseWriter, r *http.Request, status int, state service.State, alert *view.Alert) {
	records, err := h.controller.Records(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("loading roster for render failed", "error", err)
		records = []model.StudentRecord{}
		if alert == nil || alert.Kind != "error" {
			alert = view.ErrorAlert(userMessage(err))
		}
		if status < http.StatusInternalServerError {
			status = http.StatusInternalServerError
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.view.Page(w, view.Page{State: state, Alert: alert, Table: view.NewTable(records)}); err != nil {
		logging.FromContext(r.Context()).Error("rendering page failed", "error", err)
	}
}
