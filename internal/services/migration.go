package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/aura/internal/dbx"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/repositories/kv"
)

// MigrationService moves data written before accounts existed into an
// account's namespace.
type MigrationService interface {
	// Migrate copies the legacy profile (and logs, if any) to accountID and
	// deletes the legacy records. It returns the migrated profile, or nil when
	// there was nothing to migrate; a second call is therefore a no-op.
	Migrate(ctx context.Context, accountID string) (*models.UserProfile, error)
}

type migrationService struct {
	db  *sql.DB
	log logging.Logger
}

func NewMigrationService(db *sql.DB, log logging.Logger) MigrationService {
	return &migrationService{db: db, log: log.With("component", "migration")}
}

func (s *migrationService) Migrate(ctx context.Context, accountID string) (*models.UserProfile, error) {
	profile, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.UserProfile, error) {
		repo := kv.NewSQLiteRepository(tx)

		profile, found, err := readJSON[models.UserProfile](ctx, repo, s.log, legacyProfileKey)
		if err != nil || !found {
			return nil, err
		}

		if err := preserveMalformed[models.UserProfile](ctx, repo, s.log, profileKey(accountID)); err != nil {
			return nil, err
		}
		if err := writeJSON(ctx, repo, profileKey(accountID), profile); err != nil {
			return nil, err
		}
		if err := repo.Delete(ctx, legacyProfileKey); err != nil {
			return nil, err
		}

		legacy, err := readCollection[models.DayLog](ctx, repo, s.log, legacyLogsKey)
		if err != nil {
			return nil, err
		}
		switch {
		case !legacy.exists:
		case legacy.raw != nil:
			s.log.Warn(ctx, "legacy logs left in place", "key", legacyLogsKey)
		default:
			if err := s.mergeLogs(ctx, repo, accountID, legacy); err != nil {
				return nil, err
			}
			if err := repo.Delete(ctx, legacyLogsKey); err != nil {
				return nil, err
			}
		}

		return &profile, nil
	})
	if err != nil {
		return nil, fmt.Errorf("migrate legacy data: %w", err)
	}

	if profile != nil {
		s.log.Info(ctx, "legacy data migrated", "account_id", accountID)
	}
	return profile, nil
}

// mergeLogs copies legacy days into the account's logs. Days the account
// already has are kept.
func (s *migrationService) mergeLogs(ctx context.Context, repo kv.Repository, accountID string, legacy *collection[models.DayLog]) error {
	logs, err := readCollection[models.DayLog](ctx, repo, s.log, logsKey(accountID))
	if err != nil {
		return err
	}
	for date, d := range legacy.Items {
		if logs.Has(date) {
			continue
		}
		d.Date = date
		d.Normalize()
		logs.Items[date] = d
	}
	for date, e := range legacy.broken {
		if !logs.Has(date) {
			logs.broken[date] = e
		}
	}
	return logs.save(ctx, repo, s.log)
}
