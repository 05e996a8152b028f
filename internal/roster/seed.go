package roster

import (
	"context"
	"fmt"

	"github.com/csg33k/employee-roster/internal/domain"
	"github.com/csg33k/employee-roster/internal/ports"
)

// DemoEmployees is the roster a fresh server starts with.
func DemoEmployees() []domain.EmployeeInput {
	return []domain.EmployeeInput{
		{Name: "João Silva", Position: "Desenvolvedor", Skills: []string{"React", "TypeScript", "Node.js"}},
		{Name: "Maria Santos", Position: "Designer", Skills: []string{"UI/UX", "Figma", "Adobe XD"}},
	}
}

// Seed adds DemoEmployees to repo in order.
func Seed(ctx context.Context, repo ports.EmployeeRepository) error {
	for _, in := range DemoEmployees() {
		if _, err := repo.Create(ctx, in); err != nil {
			return fmt.Errorf("seed %q: %w", in.Name, err)
		}
	}
	return nil
}
