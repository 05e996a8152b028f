// Package roster mediates between the add/edit dialog and the employee store.
//
// Each browser session owns one dialog that is either closed, open for add or
// open for edit of a single record. Everything typed into an open dialog,
// including skills appended one at a time, stays in the session's draft until
// the form is submitted; dismissing the dialog throws the draft away.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"

	"github.com/csg33k/employee-roster/internal/domain"
	"github.com/csg33k/employee-roster/internal/ports"
)

type Options struct {
	EmptySegments EmptySegments
	// RequireFields rejects a submit with a blank name or position.
	RequireFields bool
}

// Result describes what a successful submit did to the store.
type Result struct {
	Employee *domain.Employee
	Created  bool
}

type Controller struct {
	repo     ports.EmployeeRepository
	opts     Options
	validate *validator.Validate
	log      *slog.Logger

	mu sync.Mutex
	// A session without an entry has its dialog closed.
	modals map[uuid.UUID]*domain.Modal
}

func New(repo ports.EmployeeRepository, opts Options, log *slog.Logger) *Controller {
	if opts.EmptySegments == "" {
		opts.EmptySegments = KeepEmpty
	}
	if log == nil {
		log = slog.Default()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})
	return &Controller{
		repo:     repo,
		opts:     opts,
		validate: v,
		log:      log,
		modals:   make(map[uuid.UUID]*domain.Modal),
	}
}

// NewSession returns a fresh session id with its dialog closed.
func (c *Controller) NewSession() uuid.UUID {
	return uuid.New()
}

// Current returns a copy of the session's dialog state.
func (c *Controller) Current(session uuid.UUID) domain.Modal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(session)
}

// OpenAdd opens an empty dialog. Any earlier draft is dropped.
func (c *Controller) OpenAdd(session uuid.UUID) domain.Modal {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals[session] = &domain.Modal{Mode: domain.ModeAdd}
	c.log.Debug("modal opened", "session", session, "mode", domain.ModeAdd)
	return c.snapshot(session)
}

// OpenEdit opens the dialog pre-filled with the record's current values.
func (c *Controller) OpenEdit(ctx context.Context, session uuid.UUID, id int64) (domain.Modal, error) {
	e, err := c.repo.Get(ctx, id)
	if err != nil {
		return domain.Modal{}, fmt.Errorf("open edit for %d: %w", id, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modals[session] = &domain.Modal{
		Mode:     domain.ModeEdit,
		TargetID: e.ID,
		Draft:    e.Clone(),
	}
	c.log.Debug("modal opened", "session", session, "mode", domain.ModeEdit, "id", id)
	return c.snapshot(session), nil
}

// SetPendingSkill records what is typed in the "Nova Habilidade" box without
// touching the draft's skills. Only an edit dialog has the box.
func (c *Controller) SetPendingSkill(session uuid.UUID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modals[session]
	if !ok || !m.Editing() {
		return domain.ErrNotEditing
	}
	m.PendingSkill = text
	return nil
}

// AppendSkill copies what the user has typed so far into the draft and
// appends form.NewSkill to its skills, clearing the pending buffer. Blank
// pending text changes nothing but the synced fields. A pending skill with a
// comma would split on submit, so it is refused with a *domain.ValidationError
// and kept in the buffer for correction.
func (c *Controller) AppendSkill(session uuid.UUID, form domain.FormInput) (domain.Modal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modals[session]
	if !ok || !m.Editing() {
		return domain.Modal{}, domain.ErrNotEditing
	}
	c.syncDraft(m, form)
	m.Err = nil
	if strings.Contains(form.NewSkill, ",") {
		m.Err = &domain.ValidationError{Field: "newSkill", Message: "habilidade não pode conter vírgula"}
		return c.snapshot(session), m.Err
	}
	if form.NewSkill != "" {
		m.Draft.Skills = append(m.Draft.Skills, form.NewSkill)
	}
	m.PendingSkill = ""
	return c.snapshot(session), nil
}

// Submit writes the dialog to the store and closes it. With RequireFields
// set, a blank name or position returns a *domain.ValidationError and leaves
// the dialog open with the error attached.
func (c *Controller) Submit(ctx context.Context, session uuid.UUID, form domain.FormInput) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modals[session]
	if !ok {
		return Result{}, domain.ErrModalClosed
	}

	if c.opts.RequireFields {
		if verr := c.check(form); verr != nil {
			c.syncDraft(m, form)
			m.Err = verr
			return Result{}, verr
		}
	}

	skills := ParseSkills(form.Skills, c.opts.EmptySegments)
	var res Result
	if m.Editing() {
		updated, err := c.repo.Update(ctx, m.TargetID, domain.EmployeePatch{
			Name:      &form.Name,
			Position:  &form.Position,
			Skills:    skills,
			SkillsSet: true,
		})
		if err != nil {
			return Result{}, fmt.Errorf("update employee %d: %w", m.TargetID, err)
		}
		res = Result{Employee: updated}
	} else {
		created, err := c.repo.Create(ctx, domain.EmployeeInput{
			Name:     form.Name,
			Position: form.Position,
			Skills:   skills,
		})
		if err != nil {
			return Result{}, fmt.Errorf("create employee: %w", err)
		}
		res = Result{Employee: created, Created: true}
	}

	delete(c.modals, session)
	c.log.Debug("modal submitted", "session", session, "created", res.Created)
	return res, nil
}

// Dismiss closes the dialog without touching the store.
func (c *Controller) Dismiss(session uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.modals, session)
}

// Delete removes a record. An open edit dialog for it in this session is
// closed so a later submit cannot resurrect a stale draft.
func (c *Controller) Delete(ctx context.Context, session uuid.UUID, id int64) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.modals[session]; ok && m.Editing() && m.TargetID == id {
		delete(c.modals, session)
	}
	return nil
}

// syncDraft copies the typed form into the open dialog.
func (c *Controller) syncDraft(m *domain.Modal, form domain.FormInput) {
	m.Draft.Name = form.Name
	m.Draft.Position = form.Position
	m.Draft.Skills = ParseSkills(form.Skills, c.opts.EmptySegments)
	if m.Editing() {
		m.PendingSkill = form.NewSkill
	}
}

func (c *Controller) check(form domain.FormInput) *domain.ValidationError {
	err := c.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &domain.ValidationError{
			Field:   verrs[0].Field(),
			Message: "campo obrigatório",
		}
	}
	return &domain.ValidationError{Field: "form", Message: err.Error()}
}

func (c *Controller) snapshot(session uuid.UUID) domain.Modal {
	m, ok := c.modals[session]
	if !ok {
		return domain.Modal{Mode: domain.ModeClosed}
	}
	out := *m
	out.Draft = m.Draft.Clone()
	return out
}
