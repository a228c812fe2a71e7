package db

import (
	"errors"
	"fmt"
)

// ErrEmptyDSN is returned by drivers that cannot run without a DSN.
var ErrEmptyDSN = errors.New("empty connection string")

// ConnectError wraps a failure to open or reach the database.
type ConnectError struct {
	Driver Driver
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Driver, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// QueryError wraps a failure while executing a statement or reading its rows.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
