// Package services contains the server-side business logic. This file
// implements UserService, the session orchestrator: it composes password
// hashing, the token codec and refresh token generation into the
// register/login/refresh/profile operations over the user store.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todoapp/userapi/internal/common"
	"github.com/todoapp/userapi/internal/dbx"
	"github.com/todoapp/userapi/internal/server/auth"
	"github.com/todoapp/userapi/internal/server/config"
	"github.com/todoapp/userapi/internal/server/models"
	"github.com/todoapp/userapi/internal/server/repositories/repomanager"
	usersrepo "github.com/todoapp/userapi/internal/server/repositories/users"
)

// LoginResult bundles a signed claim token with the rotating refresh token
// the transport delivers as an HTTP-only cookie.
type LoginResult struct {
	Token   string
	Refresh *auth.RefreshToken
}

// UserService provides the account and session operations:
//   - Register/Login: create accounts, verify credentials, mint tokens
//   - Refresh: rotate the stored refresh token and mint a new claim token
//   - UpdateProfile/Delete/List: account maintenance
//   - Decode/CheckExpired: token inspection for the transport layer
//
// The service keeps no mutable state of its own; account durability and the
// login uniqueness constraint belong to the store.
type UserService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	codec                *auth.Codec
	accessTokenValidity  time.Duration
	refreshTokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	codec, err := auth.NewCodec([]byte(cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token codec init: %w", err)
	}
	return &UserService{
		db:                   db,
		repomanager:          m,
		codec:                codec,
		accessTokenValidity:  cfg.AccessTokenValidityDuration,
		refreshTokenValidity: cfg.RefreshTokenValidityDuration,
	}, nil
}

// Register creates an account and returns a signed claim token for it.
// A taken login yields common.ErrDuplicateLogin. The duplicate pre-check here
// is best-effort; the store's unique index on login is the source of truth,
// so a concurrent duplicate still surfaces as ErrDuplicateLogin from Create.
func (s *UserService) Register(ctx context.Context, login, password, email string) (string, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByLogin(ctx, login); err == nil {
		return "", common.ErrDuplicateLogin
	} else if !errors.Is(err, common.ErrNotFound) {
		return "", fmt.Errorf("checking login: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Login:        login,
		Email:        email,
		PasswordHash: hash,
	}
	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateLogin) {
			return "", common.ErrDuplicateLogin
		}
		return "", fmt.Errorf("creating user: %w", err)
	}

	return s.issueToken(user)
}

// Login verifies the credentials, rotates the account's refresh token
// (single active session per account) and returns a fresh claim token plus
// the new refresh token. Unknown login and wrong password both yield
// common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up login: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.rotateSession(ctx, repo, user)
}

// Refresh exchanges a valid refresh token for a new token pair. The stored
// and presented tokens are compared in constant time. A missing account or
// mismatching token yields common.ErrInvalidCredentials; an expired stored
// token yields common.ErrRefreshTokenExpired. The rotation runs inside a
// transaction so two concurrent exchanges cannot both succeed with the same
// token.
func (s *UserService) Refresh(ctx context.Context, id, refreshToken string) (*LoginResult, error) {
	var result *LoginResult

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidCredentials
			}
			return fmt.Errorf("looking up account: %w", err)
		}

		if user.RefreshToken == "" {
			return common.ErrInvalidCredentials
		}
		if time.Now().After(user.TokenExpires) {
			return common.ErrRefreshTokenExpired
		}
		if subtle.ConstantTimeCompare([]byte(refreshToken), []byte(user.RefreshToken)) != 1 {
			return common.ErrInvalidCredentials
		}

		result, err = s.rotateSession(ctx, repo, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateProfile changes the account's email and returns a fresh claim token
// reflecting it. The password hash is never touched here.
func (s *UserService) UpdateProfile(ctx context.Context, login, newEmail string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrAccountNotFound
		}
		return "", fmt.Errorf("looking up login: %w", err)
	}

	user.Email = newEmail
	if err := repo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("updating user: %w", err)
	}

	return s.issueToken(user)
}

// Delete removes the account. Deleting an absent id is not an error.
func (s *UserService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// List returns all accounts. Callers must not expose the password hash or
// refresh token fields.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	repo := s.repomanager.Users(s.db)
	result, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return result, nil
}

// Decode returns the token's claims without verifying signature or expiry.
// Parse failures surface as common.ErrInvalidToken (wrapping the codec error).
func (s *UserService) Decode(token string) (*auth.Claims, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return claims, nil
}

// CheckExpired reports whether the token's expiry day has passed. Malformed
// tokens and tokens without an exp claim surface as common.ErrInvalidToken
// wrapping the specific codec error.
func (s *UserService) CheckExpired(token string) (bool, error) {
	expired, err := s.codec.IsExpired(token)
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return expired, nil
}

// rotateSession replaces the account's refresh token and issues a fresh
// claim token. The refresh token and its expiry are always written together.
func (s *UserService) rotateSession(ctx context.Context, repo usersrepo.Repository, user *models.User) (*LoginResult, error) {
	rt, err := auth.NewRefreshToken(s.refreshTokenValidity)
	if err != nil {
		return nil, err
	}

	user.RefreshToken = rt.Token
	user.TokenCreated = rt.Created
	user.TokenExpires = rt.Expires
	if err := repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Refresh: rt}, nil
}

func (s *UserService) issueToken(user *models.User) (string, error) {
	claims := auth.NewClaims()
	claims.Set("id", user.ID)
	claims.Set("name", user.Login)
	claims.Set("email", user.Email)

	token, err := s.codec.Issue(claims, s.accessTokenValidity)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}
