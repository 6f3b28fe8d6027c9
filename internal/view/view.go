// Package view renders the roster page: the student form and the table
// that is rebuilt from the stored list after every action.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"roster/internal/model"
	"roster/internal/service"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// ScrollRows is the row count past which the table container scrolls.
const ScrollRows = 8

type Alert struct {
	Kind    string // "error" or "success"
	Message string
}

func ErrorAlert(msg string) *Alert {
	return &Alert{Kind: "error", Message: msg}
}

func SuccessAlert(msg string) *Alert {
	return &Alert{Kind: "success", Message: msg}
}

type Table struct {
	Rows       []model.StudentRecord
	Scrollable bool
}

func NewTable(records []model.StudentRecord) Table {
	return Table{Rows: records, Scrollable: len(records) > ScrollRows}
}

type Page struct {
	State service.State
	Alert *Alert
	Table Table
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew is New for package initialization and main.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page", p)
}

func (r *Renderer) Table(w io.Writer, t Table) error {
	return r.tmpl.ExecuteTemplate(w, "table", t)
}

// StaticHandler serves the embedded stylesheet; mount it under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
