package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/employee-roster/internal/domain"
)

//go:embed schema.sql
var schema string

// memoryDSN keeps the database inside the process. The roster is never
// written to disk.
const memoryDSN = ":memory:?_foreign_keys=on"

type Repository struct {
	db *sql.DB
}

// New opens a private in-memory SQLite database and applies the schema.
func New(ctx context.Context) (*Repository, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a fresh database; pin to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, position, skills
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, position, skills
		FROM employees WHERE id=?`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return e, err
}

func (r *Repository) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	skills, err := encodeSkills(in.Skills)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (name, position, skills, created_at, updated_at)
		VALUES (?,?,?,?,?)`,
		in.Name, in.Position, skills, now, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id int64, patch domain.EmployeePatch) (*domain.Employee, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := scanEmployee(tx.QueryRowContext(ctx, `
		SELECT id, name, position, skills
		FROM employees WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*existing)
	skills, err := encodeSkills(updated.Skills)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE employees
		SET name=?, position=?, skills=?, updated_at=?
		WHERE id=?`,
		updated.Name, updated.Position, skills, time.Now(), id,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id=?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*domain.Employee, error) {
	var (
		e      domain.Employee
		skills string
	)
	if err := s.Scan(&e.ID, &e.Name, &e.Position, &skills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(skills), &e.Skills); err != nil {
		return nil, fmt.Errorf("decode skills for employee %d: %w", e.ID, err)
	}
	return &e, nil
}

// Skills are stored as a JSON array so empty and comma-bearing entries
// survive the round trip.
func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
