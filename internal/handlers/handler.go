package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/csg33k/employee-roster/internal/domain"
	"github.com/csg33k/employee-roster/internal/ports"
	"github.com/csg33k/employee-roster/internal/roster"
	"github.com/csg33k/employee-roster/internal/templates"
)

const sessionCookie = "roster_session"

// rosterChanged tells the page to reload the table after a submit.
const rosterChanged = "rosterChanged"

type Handler struct {
	repo ports.EmployeeRepository
	ctrl *roster.Controller
	exp  ports.RosterExporter
	log  *slog.Logger
}

func New(repo ports.EmployeeRepository, ctrl *roster.Controller, exp ports.RosterExporter, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repo: repo, ctrl: ctrl, exp: exp, log: log}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /employees", h.listEmployees)
	mux.HandleFunc("GET /employees/new", h.openAdd)
	mux.HandleFunc("GET /employees/report.pdf", h.exportPDF)
	mux.HandleFunc("GET /employees/{id}/edit", h.openEdit)
	mux.HandleFunc("DELETE /employees/{id}", h.deleteEmployee)
	mux.HandleFunc("POST /modal", h.submitModal)
	mux.HandleFunc("POST /modal/skills", h.appendSkill)
	mux.HandleFunc("PUT /modal/skills/pending", h.setPendingSkill)
	mux.HandleFunc("DELETE /modal", h.dismissModal)
	return h.logRequests(h.withSession(mux))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Page(employees, h.ctrl.Current(session(r))))
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	h.renderTable(w, r)
}

// openAdd handles the "Adicionar Funcionário" button.
func (h *Handler) openAdd(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.Modal(h.ctrl.OpenAdd(session(r))))
}

// openEdit handles a row's edit button.
func (h *Handler) openEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	m, err := h.ctrl.OpenEdit(r.Context(), session(r), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "employee not found", 404)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Modal(m))
}

// appendSkill handles the "Adicionar" button next to "Nova Habilidade".
func (h *Handler) appendSkill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	m, err := h.ctrl.AppendSkill(session(r), parseForm(r))
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		renderStatus(w, r, 422, templates.Modal(m))
		return
	case errors.Is(err, domain.ErrNotEditing):
		http.Error(w, err.Error(), 409)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.Modal(m))
}

// setPendingSkill keeps the "Nova Habilidade" box in step with the session
// as the user types.
func (h *Handler) setPendingSkill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := h.ctrl.SetPendingSkill(session(r), r.FormValue("newSkill")); err != nil {
		http.Error(w, err.Error(), 409)
		return
	}
	w.WriteHeader(204)
}

// submitModal handles "Salvar". On success the dialog closes and the table
// reloads through the rosterChanged event.
func (h *Handler) submitModal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	sess := session(r)
	res, err := h.ctrl.Submit(r.Context(), sess, parseForm(r))
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		renderStatus(w, r, 422, templates.Modal(h.ctrl.Current(sess)))
		return
	case errors.Is(err, domain.ErrModalClosed):
		http.Error(w, err.Error(), 409)
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	if res.Employee != nil {
		h.log.Info("employee saved", "id", res.Employee.ID, "created", res.Created)
	}
	w.Header().Set("HX-Trigger", rosterChanged)
	render(w, r, templates.Modal(domain.Modal{}))
}

// dismissModal handles closing the dialog without saving.
func (h *Handler) dismissModal(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Dismiss(session(r))
	render(w, r, templates.Modal(domain.Modal{}))
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if err := h.ctrl.Delete(r.Context(), session(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info("employee deleted", "id", id)
	h.renderTable(w, r)
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.exp.Export(r.Context(), employees, &buf); err != nil {
		h.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("funcionarios_%s.pdf", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

func (h *Handler) renderTable(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render(w, r, templates.EmployeeTable(employees))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	http.Error(w, err.Error(), 500)
}

// parseForm reads the dialog fields. Callers must have called r.ParseForm.
func parseForm(r *http.Request) domain.FormInput {
	return domain.FormInput{
		Name:     r.FormValue("name"),
		Position: r.FormValue("position"),
		Skills:   r.FormValue("skills"),
		NewSkill: r.FormValue("newSkill"),
	}
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

// renderStatus is render for non-200 responses htmx is still told to swap.
func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}

// session returns the id attached by withSession.
func session(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(sessionKey{}).(uuid.UUID)
	return id
}
