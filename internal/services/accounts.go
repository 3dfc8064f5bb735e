// Package services implements the Aura diary: accounts and sessions, the
// per-account profile and day-log store, legacy data migration, water and
// meal journaling, reports and the session gate the CLI drives.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/aura/internal/auth"
	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/cryptox"
	"github.com/dmitrijs2005/aura/internal/dbx"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/dmitrijs2005/aura/internal/repositories/kv"
	"github.com/google/uuid"
)

// AccountService is the local account directory and session pointer.
//
// Contract:
//   - Register: create an account; common.ErrDuplicateIdentifier if the
//     identifier is taken. Does not log in.
//   - Login: verify credentials and persist the session; on failure returns
//     common.ErrInvalidCredentials and leaves any existing session untouched.
//   - Logout: clear the session. Idempotent.
//   - CurrentSession: read the session; nil when there is none or it no
//     longer verifies.
type AccountService interface {
	Register(ctx context.Context, name, identifier string, password []byte) (models.Account, error)
	Login(ctx context.Context, identifier string, password []byte) (models.Account, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (*models.Account, error)
}

type accountService struct {
	db         *sql.DB
	log        logging.Logger
	sessionTTL time.Duration
}

// NewAccountService builds an AccountService over db. Sessions expire after
// sessionTTL.
func NewAccountService(db *sql.DB, log logging.Logger, sessionTTL time.Duration) AccountService {
	return &accountService{db: db, log: log.With("component", "accounts"), sessionTTL: sessionTTL}
}

// loadAccounts reads the directory keyed by identifier. Entries that fail to
// decode still occupy their identifier and survive every write.
func (s *accountService) loadAccounts(ctx context.Context, repo kv.Repository) (*collection[models.Account], error) {
	return readCollection[models.Account](ctx, repo, s.log, accountsKey)
}

// Register stores a new account with an argon2id password hash.
func (s *accountService) Register(ctx context.Context, name, identifier string, password []byte) (models.Account, error) {
	identifier = strings.TrimSpace(identifier)
	name = strings.TrimSpace(name)
	if identifier == "" || len(password) == 0 {
		return models.Account{}, errors.New("identifier and password are required")
	}

	hash := cryptox.HashPassword(password)

	acc, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (models.Account, error) {
		repo := kv.NewSQLiteRepository(tx)

		accounts, err := s.loadAccounts(ctx, repo)
		if err != nil {
			return models.Account{}, err
		}
		if accounts.Has(identifier) {
			return models.Account{}, common.ErrDuplicateIdentifier
		}

		acc := models.Account{
			ID:           uuid.NewString(),
			Name:         name,
			Identifier:   identifier,
			PasswordHash: hash,
		}
		accounts.Items[identifier] = acc

		if err := accounts.save(ctx, repo, s.log); err != nil {
			return models.Account{}, err
		}
		return acc, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentifier) {
			return models.Account{}, err
		}
		return models.Account{}, fmt.Errorf("register %s: %w", identifier, err)
	}

	s.log.Info(ctx, "account registered", "account_id", acc.ID)
	return acc, nil
}

// Login checks the password and, on success, writes a signed session token.
// Accounts still carrying a legacy credential are re-hashed with argon2id.
func (s *accountService) Login(ctx context.Context, identifier string, password []byte) (models.Account, error) {
	identifier = strings.TrimSpace(identifier)

	acc, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (models.Account, error) {
		repo := kv.NewSQLiteRepository(tx)

		accounts, err := s.loadAccounts(ctx, repo)
		if err != nil {
			return models.Account{}, err
		}

		acc, ok := accounts.Items[identifier]
		if !ok {
			return models.Account{}, common.ErrInvalidCredentials
		}

		match, err := cryptox.VerifyPassword(password, acc.PasswordHash)
		if err != nil {
			s.log.Warn(ctx, "stored credential unreadable", "account_id", acc.ID, "error", err)
			return models.Account{}, common.ErrInvalidCredentials
		}
		if !match {
			return models.Account{}, common.ErrInvalidCredentials
		}

		if cryptox.NeedsRehash(acc.PasswordHash) {
			acc.PasswordHash = cryptox.HashPassword(password)
			accounts.Items[identifier] = acc
			if err := accounts.save(ctx, repo, s.log); err != nil {
				return models.Account{}, err
			}
			s.log.Info(ctx, "credential upgraded to argon2id", "account_id", acc.ID)
		}

		secret, err := s.sessionSecret(ctx, repo)
		if err != nil {
			return models.Account{}, err
		}
		token, err := auth.GenerateToken(acc.ID, secret, s.sessionTTL)
		if err != nil {
			return models.Account{}, fmt.Errorf("sign session: %w", err)
		}
		if err := repo.Set(ctx, sessionKey, []byte(token)); err != nil {
			return models.Account{}, err
		}
		return acc, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return models.Account{}, err
		}
		return models.Account{}, fmt.Errorf("login %s: %w", identifier, err)
	}

	s.log.Info(ctx, "logged in", "account_id", acc.ID)
	return acc, nil
}

// sessionSecret returns the per-install signing key, creating it on first use.
func (s *accountService) sessionSecret(ctx context.Context, repo kv.Repository) ([]byte, error) {
	secret, err := repo.Get(ctx, sessionSecretKey)
	if err != nil {
		return nil, err
	}
	if len(secret) > 0 {
		return secret, nil
	}
	secret = common.GenerateRandByteArray(32)
	if err := repo.Set(ctx, sessionSecretKey, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

func (s *accountService) Logout(ctx context.Context) error {
	if err := kv.NewSQLiteRepository(s.db).Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// CurrentSession never writes. A token that fails verification or points to
// a missing account reads as no session.
func (s *accountService) CurrentSession(ctx context.Context) (*models.Account, error) {
	repo := kv.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, nil
	}

	secret, err := repo.Get(ctx, sessionSecretKey)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		s.log.Warn(ctx, "session present without signing key")
		return nil, nil
	}

	id, err := auth.AccountIDFromToken(string(token), secret)
	if err != nil {
		s.log.Warn(ctx, "stored session rejected", "error", err)
		return nil, nil
	}

	accounts, err := s.loadAccounts(ctx, repo)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts.Items {
		if acc.ID == id {
			return &acc, nil
		}
	}

	s.log.Warn(ctx, "session refers to unknown account", "account_id", id)
	return nil, nil
}
