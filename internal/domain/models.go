package domain

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNotFound    = errors.New("employee not found")
	ErrNotEditing  = errors.New("modal is not open for edit")
	ErrModalClosed = errors.New("modal is closed")
)

// Employee is one row of the roster.
type Employee struct {
	ID       int64
	Name     string
	Position string
	// Skills keeps the order the user typed them in; duplicates are allowed.
	Skills []string
}

// Clone returns a copy whose Skills slice does not alias e's.
func (e Employee) Clone() Employee {
	e.Skills = slices.Clone(e.Skills)
	return e
}

// EmployeeInput carries the fields of a new record. The store assigns the ID.
type EmployeeInput struct {
	Name     string
	Position string
	Skills   []string
}

// EmployeePatch is applied over an existing record; nil fields are left as is.
type EmployeePatch struct {
	Name     *string
	Position *string
	Skills   []string
	// SkillsSet distinguishes "replace with an empty list" from "leave alone".
	SkillsSet bool
}

// Apply returns e with the patch laid over it.
func (p EmployeePatch) Apply(e Employee) Employee {
	out := e.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.SkillsSet {
		out.Skills = slices.Clone(p.Skills)
	}
	return out
}

// FormInput is the typed payload of the add/edit modal. Skills is the raw
// comma-separated text exactly as submitted; NewSkill is the "Nova
// Habilidade" box.
type FormInput struct {
	Name     string `validate:"notblank"`
	Position string `validate:"notblank"`
	Skills   string
	NewSkill string
}

// ValidationError reports a missing or malformed form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ModalMode is the state of the add/edit dialog.
type ModalMode int

const (
	ModeClosed ModalMode = iota
	ModeAdd
	ModeEdit
)

func (m ModalMode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Modal is the per-session dialog state. Draft holds the in-progress values
// shown in the form; nothing in it reaches the store until submit.
type Modal struct {
	Mode         ModalMode
	TargetID     int64
	Draft        Employee
	PendingSkill string
	Err          *ValidationError
}

func (m Modal) Open() bool { return m.Mode != ModeClosed }

func (m Modal) Editing() bool { return m.Mode == ModeEdit }

// Title is the dialog heading shown to the user.
func (m Modal) Title() string {
	if m.Editing() {
		return "Editar Funcionário"
	}
	return "Adicionar Funcionário"
}
