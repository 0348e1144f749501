// Package service implements the account, place and booking operations. Every mutation runs the
// authorization guard and the write inside one transaction.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/staybook/internal/apperr"
	"github.com/crucial707/staybook/internal/auth"
	"github.com/crucial707/staybook/internal/authz"
	"github.com/crucial707/staybook/internal/db"
	"github.com/crucial707/staybook/internal/metrics"
	"github.com/crucial707/staybook/internal/models"
	"github.com/crucial707/staybook/internal/repo"
)

// SignupInput is the registration request.
type SignupInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,emailaddr,max=254"`
	Password string `json:"password" validate:"required,min=8"`
}

// ProfileInput is the profile update request.
type ProfileInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,emailaddr,max=254"`
}

// Session is a freshly issued token together with the user it belongs to.
type Session struct {
	Token  string
	Claims *auth.Claims
	User   *models.User
}

// AccountService registers users, authenticates them and manages their profile.
type AccountService struct {
	db     *sql.DB
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

func NewAccountService(db *sql.DB, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AccountService {
	return &AccountService{db: db, hasher: hasher, tokens: tokens}
}

// Signup creates an account. The email must not be registered yet.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperr.Validation(map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes),
		})
	}

	users := repo.NewUserRepo(s.db)
	exists, err := users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := users.Create(ctx, in.Name, in.Email, digest)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a session token. Unknown emails and wrong passwords
// produce the same error after the same amount of hashing work.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.IncAuthFailures("invalid_input")
		return nil, ErrInvalidCredentials
	}

	user, err := repo.NewUserRepo(s.db).GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if err := s.hasher.VerifyDummy(ctx, password); err != nil {
			return nil, err
		}
		metrics.IncAuthFailures("unknown_email")
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.IncAuthFailures("wrong_password")
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout revokes the session described by claims when a revocation store is configured.
func (s *AccountService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.tokens.Revoke(ctx, claims)
}

// Profile returns the caller's current account.
func (s *AccountService) Profile(ctx context.Context, identity models.Identity) (*models.User, error) {
	user, err := repo.NewUserRepo(s.db).GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the caller's name and email and returns a session carrying the new
// values. Places owned under the old email move with it.
func (s *AccountService) UpdateProfile(ctx context.Context, identity models.Identity, targetID int, in ProfileInput) (*Session, error) {
	if err := authz.AuthorizeSelf(identity, targetID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var user *models.User
	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		var err error
		user, err = repo.NewUserRepo(tx).UpdateProfile(ctx, targetID, in.Name, in.Email)
		if err != nil {
			switch {
			case errors.Is(err, repo.ErrNotFound):
				return ErrUserNotFound
			case errors.Is(err, repo.ErrDuplicate):
				return ErrEmailTaken
			}
			return err
		}
		details := ""
		if identity.Email != user.Email {
			details = "email " + identity.Email + " -> " + user.Email
		}
		return repo.NewAuditRepo(tx).Log(ctx, identity.UserID, models.AuditUpdate, models.ResourceUser, user.ID, details)
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AccountService) issue(user *models.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(models.Identity{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, Claims: claims, User: user}, nil
}
