package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/aura/internal/dbx"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/repositories/kv"
)

// HealthReport is the result of a store check. Malformed names whole keys,
// or key.entry for a single undecodable day or account.
type HealthReport struct {
	Records   int
	Malformed []string
	SetAside  []string
}

func (r HealthReport) Healthy() bool { return len(r.Malformed) == 0 }

// MaintenanceService checks, repairs and wipes the local store.
type MaintenanceService interface {
	Check(ctx context.Context) (HealthReport, error)
	// Repair moves every malformed record or entry to a "_corrupt" key so
	// reads and writes no longer trip over it. Nothing is deleted.
	Repair(ctx context.Context) (HealthReport, error)
	// Reset removes every record, accounts and session included.
	Reset(ctx context.Context) error
}

type maintenanceService struct {
	db  *sql.DB
	log logging.Logger
}

func NewMaintenanceService(db *sql.DB, log logging.Logger) MaintenanceService {
	return &maintenanceService{db: db, log: log.With("component", "maintenance")}
}

func (s *maintenanceService) Check(ctx context.Context) (HealthReport, error) {
	report, err := check(ctx, kv.NewSQLiteRepository(s.db))
	if err != nil {
		return HealthReport{}, fmt.Errorf("check store: %w", err)
	}
	return report, nil
}

func (s *maintenanceService) Repair(ctx context.Context) (HealthReport, error) {
	report, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (HealthReport, error) {
		repo := kv.NewSQLiteRepository(tx)
		report, err := check(ctx, repo)
		if err != nil {
			return HealthReport{}, err
		}
		fixed := map[string]bool{}
		for _, name := range report.Malformed {
			key, _, _ := strings.Cut(name, ".")
			if fixed[key] {
				continue
			}
			fixed[key] = true
			if err := s.repairKey(ctx, repo, key); err != nil {
				return HealthReport{}, fmt.Errorf("repair %s: %w", key, err)
			}
		}
		return report, nil
	})
	if err != nil {
		return HealthReport{}, fmt.Errorf("repair store: %w", err)
	}
	if !report.Healthy() {
		s.log.Info(ctx, "store repaired", "malformed", len(report.Malformed))
	}
	return report, nil
}

func (s *maintenanceService) repairKey(ctx context.Context, repo kv.Repository, key string) error {
	raw, err := repo.Get(ctx, key)
	if err != nil || raw == nil {
		return err
	}
	switch recordKind(key) {
	case kindAccounts:
		return repairCollection[models.Account](ctx, repo, s.log, key)
	case kindLogs:
		return repairCollection[models.DayLog](ctx, repo, s.log, key)
	}
	if _, err := setAside(ctx, repo, s.log, key, raw); err != nil {
		return err
	}
	return repo.Delete(ctx, key)
}

func repairCollection[T any](ctx context.Context, repo kv.Repository, log logging.Logger, key string) error {
	c, err := readCollection[T](ctx, repo, log, key)
	if err != nil {
		return err
	}
	if c.raw != nil {
		if _, err := setAside(ctx, repo, log, key, c.raw); err != nil {
			return err
		}
		return repo.Delete(ctx, key)
	}
	for name, e := range c.broken {
		if _, err := setAside(ctx, repo, log, key+"."+name, e); err != nil {
			return err
		}
		delete(c.broken, name)
	}
	return c.save(ctx, repo, log)
}

func (s *maintenanceService) Reset(ctx context.Context) error {
	if err := kv.NewSQLiteRepository(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.log.Warn(ctx, "local data wiped")
	return nil
}

type kind int

const (
	kindOpaque kind = iota
	kindAccounts
	kindProfile
	kindLogs
)

func recordKind(key string) kind {
	switch {
	case key == accountsKey:
		return kindAccounts
	case key == legacyLogsKey:
		return kindLogs
	case strings.HasPrefix(key, accountKeyPrefix) && strings.HasSuffix(key, "_logs"):
		return kindLogs
	case strings.HasPrefix(key, accountKeyPrefix) && strings.HasSuffix(key, "_profile"):
		return kindProfile
	}
	return kindOpaque
}

func check(ctx context.Context, repo kv.Repository) (HealthReport, error) {
	rows, err := repo.List(ctx, keyPrefix)
	if err != nil {
		return HealthReport{}, err
	}

	report := HealthReport{Records: len(rows)}
	for key, raw := range rows {
		if isSetAside(key) {
			report.SetAside = append(report.SetAside, key)
			continue
		}
		switch recordKind(key) {
		case kindAccounts:
			report.Malformed = append(report.Malformed, inspect[models.Account](key, raw)...)
		case kindLogs:
			report.Malformed = append(report.Malformed, inspect[models.DayLog](key, raw)...)
		case kindProfile:
			var p models.UserProfile
			if len(raw) > 0 && json.Unmarshal(raw, &p) != nil {
				report.Malformed = append(report.Malformed, key)
			}
		}
	}
	sort.Strings(report.Malformed)
	sort.Strings(report.SetAside)
	return report, nil
}

// inspect lists what in a collection record fails to decode.
func inspect[T any](key string, raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var entries map[string]json.RawMessage
	if json.Unmarshal(raw, &entries) != nil {
		return []string{key}
	}
	var bad []string
	for name, e := range entries {
		var v T
		if json.Unmarshal(e, &v) != nil {
			bad = append(bad, key+"."+name)
		}
	}
	return bad
}
