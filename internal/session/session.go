// Package session drives one query at a time from a frame-stepped caller.
//
// Start hands the query to a goroutine and returns immediately; the caller
// polls once per frame. Starting a new query supersedes the running one: the
// old goroutine is left to finish (and close its connection) but its result
// is never adopted.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bgunnarsson/sqlpad/internal/grid"
)

// State of a session.
type State int

const (
	Idle State = iota
	Running
	// Completed and Failed only appear in Result.State; a session returns to
	// Idle as soon as Poll hands the result out.
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Executor runs one query. On failure it returns the table to display along
// with the error.
type Executor interface {
	Execute(ctx context.Context, connectionString, sql string) (*grid.Table, error)
}

// Result is what Poll hands back once per finished run.
type Result struct {
	RunID   uint64
	State   State // Completed or Failed
	Table   *grid.Table
	Err     error
	Elapsed time.Duration
}

type outcome struct {
	table *grid.Table
	err   error
}

type run struct {
	id      uint64
	started time.Time
	done    chan outcome
}

// Session is owned by the render loop: Start, Poll and State must be called
// from a single goroutine.
type Session struct {
	exec    Executor
	timeout time.Duration
	logger  logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	state   State
	nextID  uint64
	current *run
}

// New returns an idle session. timeout bounds every run; zero disables it.
func New(exec Executor, timeout time.Duration, logger logrus.FieldLogger) *Session {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		exec:    exec,
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start runs sql against connectionString in the background and returns the
// id of the new run. A run already in flight is superseded.
func (s *Session) Start(connectionString, sql string) uint64 {
	if s.current != nil {
		s.logger.WithField("run", s.current.id).Debug("Superseding running query")
	}

	s.nextID++
	r := &run{
		id:      s.nextID,
		started: time.Now(),
		done:    make(chan outcome, 1),
	}
	s.current = r
	s.state = Running

	ctx, cancel := s.ctx, context.CancelFunc(func() {})
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, s.timeout)
	}

	s.group.Go(func() error {
		defer cancel()
		table, err := s.exec.Execute(ctx, connectionString, sql)
		if table == nil {
			table = grid.ErrorTable(fmt.Sprint(err))
		}
		r.done <- outcome{table: table, err: err}
		return nil
	})

	s.logger.WithField("run", r.id).Debug("Query started")
	return r.id
}

// Poll never blocks. It reports false while a run is in flight or nothing is
// running, and returns the current run's Result exactly once when it lands,
// after which the session is Idle again.
func (s *Session) Poll() (Result, bool) {
	if s.current == nil {
		return Result{}, false
	}

	select {
	case o := <-s.current.done:
		r := s.current
		s.current = nil

		res := Result{
			RunID:   r.id,
			State:   Completed,
			Table:   o.table,
			Err:     o.err,
			Elapsed: time.Since(r.started),
		}
		if o.err != nil {
			res.State = Failed
		}
		s.state = Idle

		s.logger.WithFields(logrus.Fields{
			"run":     r.id,
			"state":   res.State,
			"elapsed": res.Elapsed,
		}).Debug("Query adopted")
		return res, true
	default:
		return Result{}, false
	}
}

// State is Running while a run is in flight and Idle otherwise; Completed and
// Failed are only ever observed through Poll's Result.
func (s *Session) State() State { return s.state }

// Running reports whether a run is in flight.
func (s *Session) Running() bool { return s.state == Running }

// Close cancels every in-flight run, superseded ones included, and waits for
// their goroutines to return.
func (s *Session) Close() error {
	s.cancel()
	s.current = nil
	s.state = Idle
	return s.group.Wait()
}
