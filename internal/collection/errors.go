package collection

import "fmt"

// FetchError is a failed read of one table during Load
type FetchError struct {
	Table string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Table, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError is a failed write to the store
type WriteError struct {
	Op    string // "insert", "update", "delete", "replace", "attach", "detach"
	Table string
	ID    string // empty for inserts
	Err   error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Table, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func wrapFetch(table string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Table: table, Err: err}
}
