package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"booth-monitor/internal/topology"
)

const defaultAssignmentsTable = "booth_assignments"

// DBTX is the subset of database/sql used by repositories.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AssignmentRepository loads the topology table from Postgres.
type AssignmentRepository struct {
	db    DBTX
	table string
}

// NewAssignmentRepository constructs a repository.
func NewAssignmentRepository(db DBTX, opts ...AssignmentOption) *AssignmentRepository {
	repo := &AssignmentRepository{db: db, table: defaultAssignmentsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// AssignmentOption configures the repository.
type AssignmentOption func(*AssignmentRepository)

// WithAssignmentsTable overrides the default table name.
func WithAssignmentsTable(table string) AssignmentOption {
	return func(repo *AssignmentRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Load reads the whole assignment table.
func (r *AssignmentRepository) Load(ctx context.Context) ([]topology.Assignment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("assignment repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT client_name, location, booth
FROM %s
ORDER BY location, booth`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []topology.Assignment
	for rows.Next() {
		var assignment topology.Assignment
		if err := rows.Scan(&assignment.ClientName, &assignment.Location, &assignment.Booth); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}
