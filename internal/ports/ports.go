package ports

import (
	"context"
	"io"

	"github.com/csg33k/employee-roster/internal/domain"
)

// EmployeeRepository holds the roster for the lifetime of the process.
type EmployeeRepository interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]domain.Employee, error)
	// Get returns domain.ErrNotFound when id is unknown.
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	// Update returns (nil, nil) when id is unknown.
	Update(ctx context.Context, id int64, patch domain.EmployeePatch) (*domain.Employee, error)
	// Delete is a no-op when id is unknown.
	Delete(ctx context.Context, id int64) error
}

// RosterExporter defines the printable output port.
type RosterExporter interface {
	Export(ctx context.Context, employees []domain.Employee, w io.Writer) error
}
