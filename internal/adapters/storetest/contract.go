// Package storetest holds the behaviour every ports.EmployeeRepository must
// share, run by each adapter's own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/employee-roster/internal/domain"
	"github.com/csg33k/employee-roster/internal/ports"
)

// Factory returns an empty repository.
type Factory func(t *testing.T) ports.EmployeeRepository

func strPtr(s string) *string { return &s }

func create(t *testing.T, repo ports.EmployeeRepository, name, position string, skills ...string) domain.Employee {
	t.Helper()
	e, err := repo.Create(context.Background(), domain.EmployeeInput{Name: name, Position: position, Skills: skills})
	require.NoError(t, err)
	require.NotNil(t, e)
	return *e
}

func ids(list []domain.Employee) []int64 {
	out := make([]int64, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

// Run exercises the repository contract against repositories from newRepo.
func Run(t *testing.T, newRepo Factory) {
	ctx := context.Background()

	t.Run("ListEmptyStore", func(t *testing.T) {
		list, err := newRepo(t).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("CreateAppendsInOrder", func(t *testing.T) {
		repo := newRepo(t)
		a := create(t, repo, "João Silva", "Desenvolvedor", "React", "TypeScript", "Node.js")
		b := create(t, repo, "Maria Santos", "Designer", "UI/UX", "Figma", "Adobe XD")
		c := create(t, repo, "Ana", "QA", "Jest", "Cypress")

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(list))
		assert.Equal(t, domain.Employee{ID: c.ID, Name: "Ana", Position: "QA", Skills: []string{"Jest", "Cypress"}}, list[2])
	})

	t.Run("CreateAcceptsEmptyFields", func(t *testing.T) {
		repo := newRepo(t)
		e := create(t, repo, "", "", "")
		assert.Empty(t, e.Name)
		assert.Empty(t, e.Position)
		assert.Equal(t, []string{""}, e.Skills)
	})

	t.Run("SkillsKeepOrderAndDuplicates", func(t *testing.T) {
		repo := newRepo(t)
		e := create(t, repo, "Ana", "QA", "Go", "Go", "", "SQL")
		got, err := repo.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go", "Go", "", "SQL"}, got.Skills)
	})

	t.Run("SizeTracksCreatesMinusDeletes", func(t *testing.T) {
		repo := newRepo(t)
		var created []int64
		for i := 0; i < 6; i++ {
			created = append(created, create(t, repo, "n", "p").ID)
		}
		require.NoError(t, repo.Delete(ctx, created[1]))
		require.NoError(t, repo.Delete(ctx, created[4]))
		create(t, repo, "n", "p")

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 6+1-2)
	})

	t.Run("IDsNeverReusedAfterDelete", func(t *testing.T) {
		repo := newRepo(t)
		first := create(t, repo, "João Silva", "Desenvolvedor")
		second := create(t, repo, "Maria Santos", "Designer")
		require.NoError(t, repo.Delete(ctx, first.ID))

		third := create(t, repo, "Ana", "QA")
		assert.NotEqual(t, second.ID, third.ID)
		assert.Greater(t, third.ID, second.ID)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		seen := map[int64]bool{}
		for _, e := range list {
			assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
			seen[e.ID] = true
		}
	})

	t.Run("UpdateReplacesTargetOnly", func(t *testing.T) {
		repo := newRepo(t)
		a := create(t, repo, "João Silva", "Desenvolvedor", "React")
		b := create(t, repo, "Maria Santos", "Designer", "Figma")

		got, err := repo.Update(ctx, a.ID, domain.EmployeePatch{
			Position:  strPtr("Tech Lead"),
			Skills:    []string{"React", "GraphQL"},
			SkillsSet: true,
		})
		require.NoError(t, err)
		want := domain.Employee{ID: a.ID, Name: "João Silva", Position: "Tech Lead", Skills: []string{"React", "GraphQL"}}
		assert.Equal(t, want, *got)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		var matches []domain.Employee
		for _, e := range list {
			if e.ID == a.ID {
				matches = append(matches, e)
			}
		}
		require.Len(t, matches, 1)
		assert.Equal(t, want, matches[0])
		assert.Equal(t, b, list[1])
	})

	t.Run("UpdateUnknownIDIsNoop", func(t *testing.T) {
		repo := newRepo(t)
		a := create(t, repo, "João Silva", "Desenvolvedor")

		got, err := repo.Update(ctx, a.ID+100, domain.EmployeePatch{Name: strPtr("x")})
		require.NoError(t, err)
		assert.Nil(t, got)

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Employee{a}, list)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		repo := newRepo(t)
		a := create(t, repo, "João Silva", "Desenvolvedor")
		b := create(t, repo, "Maria Santos", "Designer")

		require.NoError(t, repo.Delete(ctx, a.ID))
		require.NoError(t, repo.Delete(ctx, a.ID))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Employee{b}, list)

		_, err = repo.Get(ctx, a.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DeletePreservesOrder", func(t *testing.T) {
		repo := newRepo(t)
		a := create(t, repo, "a", "p")
		b := create(t, repo, "b", "p")
		c := create(t, repo, "c", "p")
		d := create(t, repo, "d", "p")
		require.NoError(t, repo.Delete(ctx, b.ID))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{a.ID, c.ID, d.ID}, ids(list))
	})

	t.Run("ReturnedRecordsAreCopies", func(t *testing.T) {
		repo := newRepo(t)
		a := create(t, repo, "Ana", "QA", "Jest")

		list, err := repo.List(ctx)
		require.NoError(t, err)
		list[0].Skills[0] = "mutated"
		list[0].Name = "mutated"

		got, err := repo.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a, *got)
	})
}
