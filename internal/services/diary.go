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

// DiaryService persists one profile and one date-indexed log collection per
// account.
//
// GetDayLog never fails for a missing date: it returns an empty log without
// storing it. SaveDayLog and UpdateDayLog rewrite the whole collection inside
// one transaction; the last write for a date wins. Days that fail to decode
// are skipped on read and carried through every write unchanged.
type DiaryService interface {
	GetProfile(ctx context.Context, accountID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, accountID string, profile models.UserProfile) error
	GetDayLog(ctx context.Context, accountID, date string) (models.DayLog, error)
	SaveDayLog(ctx context.Context, accountID string, log models.DayLog) error
	GetAllLogs(ctx context.Context, accountID string) (map[string]models.DayLog, error)

	// UpdateDayLog loads the log for date (or an empty one), applies fn and
	// saves the result atomically. Nothing is written when fn fails.
	UpdateDayLog(ctx context.Context, accountID, date string, fn func(*models.DayLog) error) (models.DayLog, error)
}

type diaryService struct {
	db  *sql.DB
	log logging.Logger
}

func NewDiaryService(db *sql.DB, log logging.Logger) DiaryService {
	return &diaryService{db: db, log: log.With("component", "diary")}
}

func (s *diaryService) GetProfile(ctx context.Context, accountID string) (*models.UserProfile, error) {
	p, ok, err := readJSON[models.UserProfile](ctx, kv.NewSQLiteRepository(s.db), s.log, profileKey(accountID))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SaveProfile replaces the stored profile. A stored profile that no longer
// decodes is set aside first.
func (s *diaryService) SaveProfile(ctx context.Context, accountID string, profile models.UserProfile) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		key := profileKey(accountID)
		if err := preserveMalformed[models.UserProfile](ctx, repo, s.log, key); err != nil {
			return err
		}
		return writeJSON(ctx, repo, key, profile)
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *diaryService) loadLogs(ctx context.Context, repo kv.Repository, accountID string) (*collection[models.DayLog], error) {
	logs, err := readCollection[models.DayLog](ctx, repo, s.log, logsKey(accountID))
	if err != nil {
		return nil, err
	}
	for date, d := range logs.Items {
		d.Date = date
		d.Normalize()
		logs.Items[date] = d
	}
	return logs, nil
}

func (s *diaryService) GetDayLog(ctx context.Context, accountID, date string) (models.DayLog, error) {
	logs, err := s.loadLogs(ctx, kv.NewSQLiteRepository(s.db), accountID)
	if err != nil {
		return models.DayLog{}, fmt.Errorf("get day log: %w", err)
	}
	if d, ok := logs.Items[date]; ok {
		return d, nil
	}
	return models.NewDayLog(date), nil
}

func (s *diaryService) SaveDayLog(ctx context.Context, accountID string, log models.DayLog) error {
	_, err := s.UpdateDayLog(ctx, accountID, log.Date, func(d *models.DayLog) error {
		*d = log
		return nil
	})
	return err
}

func (s *diaryService) UpdateDayLog(ctx context.Context, accountID, date string, fn func(*models.DayLog) error) (models.DayLog, error) {
	if _, err := models.ParseDate(date); err != nil {
		return models.DayLog{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (models.DayLog, error) {
		repo := kv.NewSQLiteRepository(tx)

		logs, err := s.loadLogs(ctx, repo, accountID)
		if err != nil {
			return models.DayLog{}, fmt.Errorf("load logs: %w", err)
		}

		day, ok := logs.Items[date]
		if !ok {
			day = models.NewDayLog(date)
		}
		if err := fn(&day); err != nil {
			return models.DayLog{}, err
		}
		day.Date = date
		day.Normalize()
		logs.Items[date] = day

		if err := logs.save(ctx, repo, s.log); err != nil {
			return models.DayLog{}, fmt.Errorf("save logs: %w", err)
		}
		return day, nil
	})
}

func (s *diaryService) GetAllLogs(ctx context.Context, accountID string) (map[string]models.DayLog, error) {
	logs, err := s.loadLogs(ctx, kv.NewSQLiteRepository(s.db), accountID)
	if err != nil {
		return nil, fmt.Errorf("get all logs: %w", err)
	}
	return logs.Items, nil
}
