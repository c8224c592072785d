package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// setList accumulates the SET clause of a partial update
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.cols = append(s.cols, col)
	s.args = append(s.args, v)
}

// addNullable sets col when v is non-nil; "" is stored as NULL
func (s *setList) addNullable(col string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		s.add(col, nil)
		return
	}
	s.add(col, *v)
}

// insert writes one row with a generated UUID and returns the ID
func (d *DB) insert(ctx context.Context, table string, cols []string, args []any) (string, error) {
	id := uuid.NewString()
	allCols := append([]string{"id"}, cols...)
	allArgs := append([]any{id}, normalizeArgs(args)...)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(allCols)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(allCols, ", "), placeholders)
	if _, err := d.exec(ctx, q, allArgs...); err != nil {
		return "", fmt.Errorf("inserting into %s: %w", table, err)
	}
	return id, nil
}

// update applies a SET list to the row with the given ID
func (d *DB) update(ctx context.Context, table, id string, s setList) error {
	if len(s.cols) == 0 {
		return nil
	}
	sets := make([]string, len(s.cols))
	for i, c := range s.cols {
		sets[i] = c + " = ?"
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	args := append(normalizeArgs(s.args), id)

	res, err := d.exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", table, id, err)
	}
	return expectOneRow(res, table, id)
}

// delete removes the row with the given ID
func (d *DB) delete(ctx context.Context, table, id string) error {
	res, err := d.exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", table, id, err)
	}
	return expectOneRow(res, table, id)
}

func expectOneRow(res interface{ RowsAffected() (int64, error) }, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", table, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return nil
}

// normalizeArgs dereferences nullable pointers so every driver sees plain values or nil
func normalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *string:
			if v == nil {
				out[i] = nil
			} else {
				out[i] = *v
			}
		case *float64:
			if v == nil {
				out[i] = nil
			} else {
				out[i] = *v
			}
		case *int:
			if v == nil {
				out[i] = nil
			} else {
				out[i] = int64(*v)
			}
		case int:
			out[i] = int64(v)
		default:
			out[i] = a
		}
	}
	return out
}
