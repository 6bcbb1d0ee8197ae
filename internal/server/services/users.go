// Package services contains the server-side business logic of gotodo.
// This file implements UserService: registration, login and session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/dbx"
	"github.com/dmitrijs2005/gotodo/internal/server/auth"
	"github.com/dmitrijs2005/gotodo/internal/server/config"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users with hashed passwords
// - Login: verify credentials and mint a session token
// - Authenticate: resolve a session token to a user id
type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// SessionValidity is how long tokens minted by Login stay valid.
func (s *UserService) SessionValidity() time.Duration { return s.sessionValidityDuration }

// Register creates a user. The email is checked first so a clash reports
// ErrDuplicateEmail; a username clash surfaces from the unique index as
// ErrDuplicateUsername. The existing user is never touched.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := checkFields(
		field{"username", username, models.MaxUserNameLen},
		field{"email", email, models.MaxEmailLen},
	); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, auth.MaxPasswordBytes)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return nil, common.ErrDuplicateEmail
		case !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error checking email: %w", err)
		}

		user, err := repo.Create(ctx, &models.User{UserName: username, Email: email, Password: hash})
		if err != nil {
			if errors.Is(err, common.ErrDuplicateEmail) || errors.Is(err, common.ErrDuplicateUsername) {
				return nil, err
			}
			return nil, fmt.Errorf("error creating user: %w", err)
		}
		return user, nil
	})
}

// Login verifies the password and returns the user with a fresh session
// token. Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, userName, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, strings.TrimSpace(userName))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: loading user: %v", common.ErrorInternal, err)
	}

	ok, err := auth.CheckPassword(user.Password, password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: checking password: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("%w: generating token: %v", common.ErrorInternal, err)
	}

	return user, token, nil
}

// Authenticate resolves a session token to its user id.
func (s *UserService) Authenticate(token string) (int64, error) {
	if token == "" {
		return 0, common.ErrorUnauthorized
	}
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, id)
}
