package app

import (
	"fmt"
	"regexp"
)

var (
	kvPassword   = regexp.MustCompile(`(?i)\b(password|pwd)\s*=\s*[^;]*`)
	nativeSecret = regexp.MustCompile(`^([^:@/]+):[^@]*@`)
)

// MaskPassword hides the password of a key=value or native DSN connection
// string.
func MaskPassword(cs string) string {
	cs = kvPassword.ReplaceAllString(cs, "$1=***")
	return nativeSecret.ReplaceAllString(cs, "$1:***@")
}

// ShowSaved prints the saved configuration with the password masked.
func (a *App) ShowSaved() error {
	cfg := a.vault.Load()
	_, err := fmt.Fprintf(a.out, "Connection: %s\nQuery:\n%s\n", MaskPassword(cfg.ConnectionString), cfg.QueryText)
	return err
}

// ClearSaved deletes the saved configuration.
func (a *App) ClearSaved() error {
	if err := a.vault.Clear(); err != nil {
		return err
	}
	a.logger.Info("Cleared saved configuration")
	_, err := fmt.Fprintln(a.out, "Saved configuration cleared.")
	return err
}
