package app

import (
	"context"
	"errors"

	"github.com/bgunnarsson/sqlpad/internal/executor"
	"github.com/bgunnarsson/sqlpad/internal/session"
	"github.com/bgunnarsson/sqlpad/internal/ui"
)

// RunInteractive loads the saved configuration, runs the console and saves
// the configuration as last edited when the console exits.
func (a *App) RunInteractive(ctx context.Context) error {
	saved := a.vault.Load()

	exec := executor.New(a.driver(), a.opener(), a.logger)
	sess := session.New(exec, a.cfg.QueryTimeout, a.logger)

	a.logger.WithField("driver", a.driver()).Info("Starting console")

	final, runErr := ui.Run(ctx, ui.Options{
		Driver:         a.driver(),
		Runner:         sess,
		Config:         saved,
		FrameInterval:  a.cfg.FrameInterval,
		MaxCells:       a.cfg.Grid.MaxCells,
		MinColumnCells: a.cfg.UI.MinColumnCells,
		MaxColumnCells: a.cfg.UI.MaxColumnCells,
		Logger:         a.logger,
	})

	closeErr := sess.Close()

	if _, err := a.vault.Save(final); err != nil {
		a.logger.WithError(err).Error("Failed to save configuration")
		return errors.Join(runErr, closeErr, err)
	}

	a.logger.Info("Console closed")
	return errors.Join(runErr, closeErr)
}
