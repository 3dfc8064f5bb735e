package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/aura/internal/backup"
	"github.com/dmitrijs2005/aura/internal/config"
	"github.com/dmitrijs2005/aura/internal/estimator"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/nutrition"
	"github.com/dmitrijs2005/aura/internal/reminder"
	"github.com/dmitrijs2005/aura/internal/services"
	"github.com/dmitrijs2005/aura/internal/storage"
)

type App struct {
	config *config.Config
	log    logging.Logger

	gate        *services.Gate
	diary       services.DiaryService
	maintenance services.MaintenanceService
	journal     services.JournalService
	reports     services.ReportService
	estimator   estimator.Estimator
	catalog     *nutrition.Catalog
	exporter    *backup.Exporter

	reader *bufio.Reader
	out    io.Writer
	nowFn  func() time.Time

	closers []io.Closer
}

// NewApp opens the database and builds the services. Close releases them.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser, err := logging.New(logging.Options{File: c.LogFile, Level: c.LogLevel, Format: c.LogFormat})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	a := newApp(c, db, logger)
	a.closers = append(a.closers, db, logCloser)

	if c.GeminiAPIKey != "" {
		gen, err := estimator.NewGemini(ctx, c.GeminiAPIKey, c.GeminiModel)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, gen)
		a.estimator = estimator.New(gen, estimator.Options{
			Timeout: c.EstimatorTimeout,
			Retries: c.EstimatorRetries,
		}, logger)
	} else {
		logger.Warn(ctx, "GEMINI_API_KEY not set, AI estimates disabled")
	}

	sinks := []backup.Sink{backup.FileSink{Dir: c.BackupDir}}
	if c.S3Enabled() {
		s3sink, err := newS3Sink(ctx, c)
		if err != nil {
			a.Close()
			return nil, err
		}
		sinks = append(sinks, s3sink)
	}
	a.exporter = backup.NewExporter(a.diary, logger, sinks...)

	return a, nil
}

func newApp(c *config.Config, db *sql.DB, logger logging.Logger) *App {
	diary := services.NewDiaryService(db, logger)
	accounts := services.NewAccountService(db, logger, c.SessionTTL)
	migrator := services.NewMigrationService(db, logger)

	return &App{
		config:      c,
		log:         logger,
		gate:        services.NewGate(accounts, diary, migrator, logger),
		diary:       diary,
		maintenance: services.NewMaintenanceService(db, logger),
		journal:     services.NewJournalService(diary, logger),
		reports:     services.NewReportService(diary),
		catalog:     nutrition.Default(),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		nowFn:       time.Now,
	}
}

func newS3Sink(ctx context.Context, c *config.Config) (*backup.S3Sink, error) {
	return backup.NewS3Sink(ctx, backup.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Prefix:       c.S3Prefix,
	})
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// Run resumes the saved session, starts the reminder watcher and blocks in
// the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.printf("Welcome to Aura (type 'help' for commands)\n")

	if _, err := a.gate.Resume(ctx); err != nil {
		a.log.Warn(ctx, "resume session", "error", err)
	}
	a.greet()

	w := reminder.NewWatcher(a.gate, func(msg string) { a.printf("\n[reminder] %s\n", msg) }, a.log)
	go w.Run(ctx, a.config.ReminderCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) greet() {
	switch a.gate.State() {
	case services.StateActive:
		if s, err := a.gate.Session(); err == nil {
			a.printf("Welcome back, %s.\n", displayName(s))
		}
	case services.StateOnboarding:
		a.printf("Your profile is not set up yet. Type 'onboard' to start.\n")
	default:
		a.printf("Type 'login' or 'register' to start.\n")
	}
}

func (a *App) state() services.State {
	return a.gate.State()
}

// getStatus renders the prompt prefix: who is signed in and today's water.
func (a *App) getStatus(ctx context.Context) string {
	s, err := a.gate.Session()
	if err != nil {
		return ""
	}
	if a.state() != services.StateActive {
		return fmt.Sprintf("(%s, onboarding)", displayName(s))
	}

	day, err := a.diary.GetDayLog(ctx, s.AccountID(), a.today())
	if err != nil {
		return fmt.Sprintf("(%s)", displayName(s))
	}
	unit := profileUnit(s.Profile)
	return fmt.Sprintf("(%s %s/%s)", displayName(s), unit.Format(day.WaterTotal()), unit.Format(s.Profile.WaterTarget()))
}

func (a *App) today() string {
	return models.DateOf(a.nowFn())
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func displayName(s services.Session) string {
	if s.Profile != nil && s.Profile.Name != "" {
		return s.Profile.Name
	}
	if s.Account.Name != "" {
		return s.Account.Name
	}
	return s.Account.Identifier
}

func profileUnit(p *models.UserProfile) models.VolumeUnit {
	if p == nil || p.Unit == "" {
		return models.UnitMilliliters
	}
	return p.Unit
}
