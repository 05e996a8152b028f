// Package memory keeps the roster in process memory. Records live as long as
// the server does.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/csg33k/employee-roster/internal/domain"
)

type Repository struct {
	mu        sync.Mutex
	employees []domain.Employee
	// lastID only grows, so an id freed by Delete is never handed out again.
	lastID int64
}

func New() *Repository {
	return &Repository{}
}

func (r *Repository) List(_ context.Context) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Employee, len(r.employees))
	for i, e := range r.employees {
		out[i] = e.Clone()
	}
	return out, nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	e := r.employees[i].Clone()
	return &e, nil
}

func (r *Repository) Create(_ context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	e := domain.Employee{
		ID:       r.lastID,
		Name:     in.Name,
		Position: in.Position,
		Skills:   slices.Clone(in.Skills),
	}
	r.employees = append(r.employees, e)
	out := e.Clone()
	return &out, nil
}

func (r *Repository) Update(_ context.Context, id int64, patch domain.EmployeePatch) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	r.employees[i] = patch.Apply(r.employees[i])
	out := r.employees[i].Clone()
	return &out, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees = slices.DeleteFunc(r.employees, func(e domain.Employee) bool {
		return e.ID == id
	})
	return nil
}

func (r *Repository) indexOf(id int64) int {
	return slices.IndexFunc(r.employees, func(e domain.Employee) bool {
		return e.ID == id
	})
}
