package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/polkiloo/storerating/internal/domain/errors"
	"github.com/polkiloo/storerating/internal/domain/model"
	"github.com/polkiloo/storerating/internal/domain/repository"
	pkgAuth "github.com/polkiloo/storerating/internal/pkg/auth"
)

const (
	decoyPassword = "storerating-decoy-password"

	// maxPasswordBytes is the bcrypt input limit.
	maxPasswordBytes = 72
)

// AuthUseCase verifies credentials, registers accounts and issues session tokens.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy

	decoyMu   sync.Mutex
	decoyHash string
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Authenticate checks the email/password pair and issues a session token.
// Surrounding whitespace is trimmed from email before an exact,
// case-sensitive lookup. Unknown email and wrong password both yield
// ErrInvalidCredentials; any other hasher failure is returned wrapped.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domainErrors.ErrMissingField
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.compareDecoy(ctx, password)
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrStoreUnavailable, err)
	}

	if err := u.hasher.Compare(ctx, usr.PasswordHash, password); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password for user %d: %w", usr.ID, err)
	}

	token, expiresAt, err := u.tokens.IssueToken(usr.Claims())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrSigningFailure, err)
	}

	return &model.Session{Token: token, ExpiresAt: expiresAt, User: usr.View()}, nil
}

// PrepareDecoy builds the hash compared against on unknown-email logins so
// the first such login costs the same as later ones.
func (u *AuthUseCase) PrepareDecoy(ctx context.Context) error {
	_, err := u.decoy(ctx)
	return err
}

func (u *AuthUseCase) decoy(ctx context.Context) (string, error) {
	u.decoyMu.Lock()
	defer u.decoyMu.Unlock()
	if u.decoyHash != "" {
		return u.decoyHash, nil
	}
	hash, err := u.hasher.Hash(context.WithoutCancel(ctx), decoyPassword)
	if err != nil {
		return "", fmt.Errorf("prepare decoy hash: %w", err)
	}
	u.decoyHash = hash
	return hash, nil
}

// compareDecoy spends the same bcrypt work as a real comparison. A failed
// decoy build is retried on the next call.
func (u *AuthUseCase) compareDecoy(ctx context.Context, password string) {
	hash, err := u.decoy(ctx)
	if err != nil {
		return
	}
	_ = u.hasher.Compare(ctx, hash, password)
}

// Register creates an account with a bcrypt hashed password.
func (u *AuthUseCase) Register(ctx context.Context, in model.Registration) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Email == "" || in.Address == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, domainErrors.ErrMissingField
	}
	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, domainErrors.ErrPasswordMismatch
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domainErrors.ErrPasswordTooLong
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() || role == model.RoleAdmin {
		return nil, domainErrors.ErrInvalidRole
	}

	hash, err := u.hasher.Hash(ctx, in.Password)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domainErrors.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	usr, err := u.users.Create(ctx, model.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		Address:      in.Address,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrStoreUnavailable, err)
	}
	return usr, nil
}

// ParseToken validates a session token and returns its claims.
func (u *AuthUseCase) ParseToken(token string) (*model.Claims, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrStoreUnavailable, err)
	}
	return usr, nil
}
