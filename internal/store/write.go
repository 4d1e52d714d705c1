package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/tuplecheck/internal/diagnostics"
	"github.com/funvibe/tuplecheck/internal/records"
)

// timeFormat sorts lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// BeginRun records a new analysis run of file.
func (s *Store) BeginRun(ctx context.Context, runID uuid.UUID, file string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, file, started_at) VALUES (?, ?, ?)`,
		runID.String(), file, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}
	return nil
}

// RecordTypes stores the descriptors of a run with their fields and
// generated operations, in declaration order.
func (s *Store) RecordTypes(ctx context.Context, runID uuid.UUID, descs []*records.Descriptor) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for i, d := range descs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO record_types (run_id, seq, name, typevar, bases, line) VALUES (?, ?, ?, ?, ?, ?)`,
				runID.String(), i, d.Name, d.TVar.Name, strings.Join(d.Bases, ","), d.Token.Line); err != nil {
				return fmt.Errorf("insert record type %s: %w", d.Name, err)
			}
			for _, f := range d.Fields {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO record_fields (run_id, type_name, position, name, type, has_default) VALUES (?, ?, ?, ?, ?, ?)`,
					runID.String(), d.Name, f.Order, f.Name, f.Type.String(), f.HasDefault); err != nil {
					return fmt.Errorf("insert field %s.%s: %w", d.Name, f.Name, err)
				}
			}
			for _, kind := range records.OpKinds {
				sig, ok := d.Op(kind)
				if !ok {
					continue
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO record_operations (run_id, type_name, name, signature) VALUES (?, ?, ?, ?)`,
					runID.String(), d.Name, kind.String(), sig.String()); err != nil {
					return fmt.Errorf("insert operation %s.%s: %w", d.Name, kind, err)
				}
			}
		}
		return nil
	})
}

// RecordDiagnostics stores diagnostics in insertion order.
func (s *Store) RecordDiagnostics(ctx context.Context, runID uuid.UUID, errs []*diagnostics.DiagnosticError) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for i, e := range errs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO diagnostics (run_id, seq, code, file, line, col, message) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID.String(), i, string(e.Code), e.File, e.Token.Line, e.Token.Column, e.Message); err != nil {
				return fmt.Errorf("insert diagnostic %d: %w", i, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
