// Package executor runs one SQL command against a fresh connection and turns
// the result into a display grid.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/bgunnarsson/sqlpad/internal/db"
	"github.com/bgunnarsson/sqlpad/internal/grid"
)

const (
	// MaxCellRunes bounds the length of a single display cell.
	MaxCellRunes = 255
	// TruncationMarker is appended to cells cut at MaxCellRunes.
	TruncationMarker = "(..."
	// NullText stands in for SQL NULL.
	NullText = "(null)"
	// TimeLayout renders timestamp cells.
	TimeLayout = "2006-01-02 15:04:05"
)

// Executor opens a connection per call, runs the statement verbatim and
// closes the connection again.
type Executor struct {
	Driver db.Driver
	Open   db.OpenFunc
	Logger logrus.FieldLogger
}

// New returns an Executor for driver using open to connect.
func New(driver db.Driver, open db.OpenFunc, logger logrus.FieldLogger) *Executor {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Executor{Driver: driver, Open: open, Logger: logger}
}

// Execute connects, runs sql and converts the result. On failure the returned
// table is the two-row error table and err carries the cause as a
// *db.ConnectError or *db.QueryError.
func (e *Executor) Execute(ctx context.Context, connectionString, sql string) (*grid.Table, error) {
	start := time.Now()
	log := e.Logger.WithField("driver", e.Driver)

	table, err := e.execute(ctx, connectionString, sql)
	if err != nil {
		log.WithError(err).WithField("elapsed", time.Since(start)).Debug("Query failed")
		return grid.ErrorTable(Message(err)), err
	}

	log.WithFields(logrus.Fields{
		"rows":    table.Len() - 1,
		"elapsed": time.Since(start),
	}).Debug("Query finished")
	return table, nil
}

func (e *Executor) execute(ctx context.Context, connectionString, sql string) (*grid.Table, error) {
	conn, err := e.Open(ctx, connectionString)
	if err != nil {
		return nil, &db.ConnectError{Driver: e.Driver, Err: err}
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			e.Logger.WithError(cerr).Warn("Failed to close connection")
		}
	}()

	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, &db.QueryError{Err: err}
	}

	table, err := Convert(rows)
	if err != nil {
		return nil, &db.QueryError{Err: err}
	}
	return table, nil
}

// Convert builds the display grid: column names first, then one row of
// formatted cells per result row.
func Convert(rows *db.Rows) (*grid.Table, error) {
	out := make([][]string, 0, len(rows.Data)+1)

	header := make([]string, len(rows.Columns))
	for i, col := range rows.Columns {
		header[i] = col.Name
	}
	out = append(out, header)

	for _, r := range rows.Data {
		cells := make([]string, len(header))
		for i := range cells {
			if i < len(r) {
				cells[i] = FormatCell(r[i])
			} else {
				cells[i] = NullText
			}
		}
		out = append(out, cells)
	}

	return grid.New(out)
}

// FormatCell renders one value for display.
func FormatCell(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return NullText
	case time.Time:
		return t.Format(TimeLayout)
	case *time.Time:
		if t == nil {
			return NullText
		}
		return t.Format(TimeLayout)
	case string:
		s = t
	case []byte:
		// heuristic: treat as string if printable, else show len
		if isPrintable(t) {
			s = string(t)
		} else {
			s = fmt.Sprintf("<blob %d bytes>", len(t))
		}
	case int64:
		s = strconv.FormatInt(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return Clip(s)
}

// Clip cuts s to MaxCellRunes runes followed by TruncationMarker.
func Clip(s string) string {
	if utf8.RuneCountInString(s) <= MaxCellRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxCellRunes {
			return s[:i] + TruncationMarker
		}
		n++
	}
	return s
}

// Message is the text shown for a failed query: the innermost error's
// message, or its type when the message is empty.
func Message(err error) string {
	if err == nil {
		return ""
	}
	inner := err
	for {
		next := errors.Unwrap(inner)
		if next == nil {
			break
		}
		inner = next
	}
	if msg := inner.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("%T", inner)
}

func isPrintable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if r < 32 && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
