package cli

import (
	"context"
)

// Export writes the session's backup to every configured sink.
func (a *App) Export(ctx context.Context) error {
	s, err := a.gate.ActiveSession()
	if err != nil {
		return err
	}
	locs, err := a.exporter.Export(ctx, s.AccountID())
	for _, l := range locs {
		a.printf("Backup written to %s\n", l)
	}
	return err
}
