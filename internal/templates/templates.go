// Package templates renders the roster page and its htmx fragments.
//
// The markup lives in html/*.html as html/template sources so it can be edited
// without a generate step; each exported function wraps one named template as
// a templ.Component for the handlers' render helper.
package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/csg33k/employee-roster/internal/domain"
)

//go:embed html/*.html
var files embed.FS

var tmpl = template.Must(template.New("roster").Funcs(template.FuncMap{
	"itoa":   itoa,
	"skills": joinSkills,
}).ParseFS(files, "html/*.html"))

type pageData struct {
	Employees []domain.Employee
	Modal     domain.Modal
}

// Page is the full document: heading, add button, table and dialog slot.
func Page(employees []domain.Employee, modal domain.Modal) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("page"), pageData{Employees: employees, Modal: modal})
}

// EmployeeTable is one row per record, in store order.
func EmployeeTable(employees []domain.Employee) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("employee-table"), employees)
}

// Modal renders the add/edit dialog, or nothing when it is closed.
func Modal(m domain.Modal) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("modal"), m)
}
