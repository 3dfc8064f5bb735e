// Package backup exports an account's profile and day logs as a JSON
// document and hands it to one or more sinks.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
)

// Source reads the records of one account.
type Source interface {
	GetProfile(ctx context.Context, accountID string) (*models.UserProfile, error)
	GetAllLogs(ctx context.Context, accountID string) (map[string]models.DayLog, error)
}

// Sink stores an encoded backup and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// FileName is the document name for a backup taken at t (UTC date).
func FileName(t time.Time) string {
	return "aura-backup-" + t.UTC().Format(models.DateLayout) + ".json"
}

func Encode(b models.Backup) ([]byte, error) {
	if b.Logs == nil {
		b.Logs = map[string]models.DayLog{}
	}
	return json.Marshal(b)
}

// Decode parses a backup document. Unknown meal types or malformed dates are
// rejected.
func Decode(data []byte) (models.Backup, error) {
	var b models.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return models.Backup{}, fmt.Errorf("decode backup: %w", err)
	}
	if b.Logs == nil {
		b.Logs = map[string]models.DayLog{}
	}
	for date, d := range b.Logs {
		if _, err := models.ParseDate(date); err != nil {
			return models.Backup{}, fmt.Errorf("decode backup: %w", err)
		}
		d.Normalize()
		if d.Date == "" {
			d.Date = date
		}
		b.Logs[date] = d
	}
	return b, nil
}

type Exporter struct {
	src   Source
	sinks []Sink
	log   logging.Logger
	nowFn func() time.Time
}

func NewExporter(src Source, log logging.Logger, sinks ...Sink) *Exporter {
	return &Exporter{src: src, sinks: sinks, log: log.With("component", "backup"), nowFn: time.Now}
}

// Snapshot collects the account's records.
func (e *Exporter) Snapshot(ctx context.Context, accountID string) (models.Backup, error) {
	profile, err := e.src.GetProfile(ctx, accountID)
	if err != nil {
		return models.Backup{}, fmt.Errorf("snapshot profile: %w", err)
	}
	logs, err := e.src.GetAllLogs(ctx, accountID)
	if err != nil {
		return models.Backup{}, fmt.Errorf("snapshot logs: %w", err)
	}
	return models.Backup{Profile: profile, Logs: logs}, nil
}

// Export writes the account's backup to every sink and returns the
// locations that succeeded. Sink failures are joined into the error.
func (e *Exporter) Export(ctx context.Context, accountID string) ([]string, error) {
	if len(e.sinks) == 0 {
		return nil, errors.New("export: no backup sink configured")
	}

	b, err := e.Snapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}
	data, err := Encode(b)
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}

	name := FileName(e.nowFn())
	var (
		locations []string
		errs      []error
	)
	for _, s := range e.sinks {
		loc, err := s.Put(ctx, name, data)
		if err != nil {
			e.log.Error(ctx, "backup sink failed", "name", name, "error", err)
			errs = append(errs, err)
			continue
		}
		e.log.Info(ctx, "backup written", "account_id", accountID, "location", loc, "bytes", len(data))
		locations = append(locations, loc)
	}
	return locations, errors.Join(errs...)
}
