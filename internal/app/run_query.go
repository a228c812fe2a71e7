package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bgunnarsson/sqlpad/internal/db"
	"github.com/bgunnarsson/sqlpad/internal/executor"
	"github.com/bgunnarsson/sqlpad/internal/grid"
	"github.com/bgunnarsson/sqlpad/internal/print"
)

// RunNonInteractive runs one query and prints the result. An empty dsn or sql
// falls back to the saved configuration. The error table is printed for a
// failed query and the error returned.
func (a *App) RunNonInteractive(ctx context.Context, dsn, sql string) error {
	dsn, sql = a.resolve(dsn, sql)

	ctx, cancel := a.withQueryTimeout(ctx)
	defer cancel()

	start := time.Now()
	table, err := executor.New(a.driver(), a.opener(), a.logger).Execute(ctx, dsn, sql)
	a.logger.WithFields(logrus.Fields{
		"driver":  a.driver(),
		"elapsed": elapsedSince(start),
	}).Debug("Non-interactive query done")

	a.render(table)
	return err
}

// RunTables prints every table of the database.
func (a *App) RunTables(ctx context.Context, dsn string) error {
	return a.withConn(ctx, dsn, func(ctx context.Context, conn db.DB) (*grid.Table, error) {
		names, err := conn.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		rows := [][]string{{"Table"}}
		for _, n := range names {
			rows = append(rows, []string{n})
		}
		return grid.New(rows)
	})
}

// RunDescribe prints the columns of table.
func (a *App) RunDescribe(ctx context.Context, dsn, table string) error {
	return a.withConn(ctx, dsn, func(ctx context.Context, conn db.DB) (*grid.Table, error) {
		cols, err := conn.DescribeTable(ctx, table)
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("table %q not found", table)
		}
		rows := [][]string{{"Column", "Type", "Null"}}
		for _, c := range cols {
			null := "NO"
			if c.Nullable {
				null = "YES"
			}
			rows = append(rows, []string{c.Name, c.Type, null})
		}
		return grid.New(rows)
	})
}

func (a *App) withConn(ctx context.Context, dsn string, fn func(context.Context, db.DB) (*grid.Table, error)) error {
	if dsn == "" {
		dsn = a.vault.Load().ConnectionString
	}

	ctx, cancel := a.withQueryTimeout(ctx)
	defer cancel()

	conn, err := a.opener()(ctx, dsn)
	if err != nil {
		err = &db.ConnectError{Driver: a.driver(), Err: err}
		a.render(grid.ErrorTable(executor.Message(err)))
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			a.logger.WithError(cerr).Warn("Failed to close connection")
		}
	}()

	table, err := fn(ctx, conn)
	if err != nil {
		err = &db.QueryError{Err: err}
		a.render(grid.ErrorTable(executor.Message(err)))
		return err
	}
	a.render(table)
	return nil
}

func (a *App) render(table *grid.Table) {
	print.RenderTable(a.out, table, print.Options{
		MaxWidth: 60,
		MaxCells: a.cfg.Grid.MaxCells,
		MinWidth: a.cfg.Grid.MinWidth,
	})
}
