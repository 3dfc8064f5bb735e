package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/repositories/kv"
	"github.com/dmitrijs2005/aura/internal/storage"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func putRaw(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	require.NoError(t, kv.NewSQLiteRepository(db).Set(context.Background(), key, []byte(value)))
}

func getRaw(t *testing.T, db *sql.DB, key string) []byte {
	t.Helper()
	v, err := kv.NewSQLiteRepository(db).Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

type fixture struct {
	db       *sql.DB
	accounts AccountService
	diary    DiaryService
	migrator MigrationService
	journal  JournalService
	reports  ReportService
	gate     *Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	log := logging.Nop{}
	f := &fixture{
		db:       db,
		accounts: NewAccountService(db, log, time.Hour),
		diary:    NewDiaryService(db, log),
		migrator: NewMigrationService(db, log),
	}
	f.journal = NewJournalService(f.diary, log)
	f.reports = NewReportService(f.diary)
	f.gate = NewGate(f.accounts, f.diary, f.migrator, log)
	return f
}
