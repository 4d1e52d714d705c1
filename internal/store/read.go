package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/token"
)

// Run is one indexed analysis run.
type Run struct {
	ID        uuid.UUID
	File      string
	StartedAt time.Time
}

// TypeRow is an indexed record type.
type TypeRow struct {
	Name       string
	TypeVar    string
	Bases      []string
	Line       int
	Fields     []FieldRow
	Operations map[string]string // operation name -> printed signature
}

type FieldRow struct {
	Name       string
	Type       string
	HasDefault bool
}

// LatestRun returns the most recent run of file. ok is false when the file
// was never indexed.
func (s *Store) LatestRun(ctx context.Context, file string) (run Run, ok bool, err error) {
	var id, started string
	err = s.db.QueryRowContext(ctx, `
		SELECT id, file, started_at
		FROM runs
		WHERE file = ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`, file).Scan(&id, &run.File, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("query latest run of %s: %w", file, err)
	}
	if run.ID, err = uuid.Parse(id); err != nil {
		return Run{}, false, fmt.Errorf("run id %q: %w", id, err)
	}
	if run.StartedAt, err = time.Parse(timeFormat, started); err != nil {
		return Run{}, false, fmt.Errorf("run %s start time: %w", id, err)
	}
	return run, true, nil
}

// Types returns the record types of a run in declaration order.
func (s *Store) Types(ctx context.Context, runID uuid.UUID) ([]TypeRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, typevar, bases, line
		FROM record_types
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query record types: %w", err)
	}
	defer rows.Close()

	types := []TypeRow{}
	for rows.Next() {
		var t TypeRow
		var bases string
		if err := rows.Scan(&t.Name, &t.TypeVar, &bases, &t.Line); err != nil {
			return nil, fmt.Errorf("scan record type: %w", err)
		}
		if bases != "" {
			t.Bases = strings.Split(bases, ",")
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record types: %w", err)
	}

	for i := range types {
		if types[i].Fields, err = s.fields(ctx, runID, types[i].Name); err != nil {
			return nil, err
		}
		if types[i].Operations, err = s.operations(ctx, runID, types[i].Name); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func (s *Store) fields(ctx context.Context, runID uuid.UUID, typeName string) ([]FieldRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type, has_default
		FROM record_fields
		WHERE run_id = ? AND type_name = ?
		ORDER BY position ASC
	`, runID.String(), typeName)
	if err != nil {
		return nil, fmt.Errorf("query fields of %s: %w", typeName, err)
	}
	defer rows.Close()

	fields := []FieldRow{}
	for rows.Next() {
		var f FieldRow
		if err := rows.Scan(&f.Name, &f.Type, &f.HasDefault); err != nil {
			return nil, fmt.Errorf("scan field of %s: %w", typeName, err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (s *Store) operations(ctx context.Context, runID uuid.UUID, typeName string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, signature
		FROM record_operations
		WHERE run_id = ? AND type_name = ?
	`, runID.String(), typeName)
	if err != nil {
		return nil, fmt.Errorf("query operations of %s: %w", typeName, err)
	}
	defer rows.Close()

	ops := make(map[string]string)
	for rows.Next() {
		var name, sig string
		if err := rows.Scan(&name, &sig); err != nil {
			return nil, fmt.Errorf("scan operation of %s: %w", typeName, err)
		}
		ops[name] = sig
	}
	return ops, rows.Err()
}

// Diagnostics returns the diagnostics of a run in the order they were
// reported. An empty code matches every diagnostic.
func (s *Store) Diagnostics(ctx context.Context, runID uuid.UUID, code diagnostics.ErrorCode) ([]*diagnostics.DiagnosticError, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, file, line, col, message
		FROM diagnostics
		WHERE run_id = ? AND (? = '' OR code = ?)
		ORDER BY seq ASC
	`, runID.String(), string(code), string(code))
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	errs := []*diagnostics.DiagnosticError{}
	for rows.Next() {
		var e diagnostics.DiagnosticError
		var c string
		var line, col int
		if err := rows.Scan(&c, &e.File, &line, &col, &e.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		e.Code = diagnostics.ErrorCode(c)
		e.Token = token.At(line, col)
		errs = append(errs, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return errs, nil
}
