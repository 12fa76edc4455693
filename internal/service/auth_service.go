package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kaamsetu/internal/model"
	"kaamsetu/internal/repository"
	"kaamsetu/internal/session"
	"kaamsetu/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicatePhone     = errors.New("an account with this phone number already exists")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrInvalidRole        = errors.New("role must be user or provider")
	ErrInvalidSession     = errors.New("session is invalid or has ended")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// AuthService provides account and session operations
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.Account, error)
	Authenticate(ctx context.Context, phone, password string) (*model.Account, error)
	Login(ctx context.Context, phone, password string) (*model.Account, string, error)
	Logout(ctx context.Context, sess session.Session) error
	ParseSession(ctx context.Context, token string) (session.Session, error)
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtUtil     *utils.JWTUtil
	revoker     session.Revoker

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(accountRepo repository.AccountRepository, jwtUtil *utils.JWTUtil, revoker session.Revoker) AuthService {
	if revoker == nil {
		revoker = session.NopRevoker{}
	}
	return &authService{
		accountRepo: accountRepo,
		jwtUtil:     jwtUtil,
		revoker:     revoker,
	}
}

// Signup creates a new account with a hashed password
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (*model.Account, error) {
	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}

	account := &model.Account{
		Phone:        req.Phone,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to create account in repository: %w", err)
	}
	return account, nil
}

// Authenticate returns the account matching phone and password. Unknown phone
// and wrong password are indistinguishable to the caller.
func (s *authService) Authenticate(ctx context.Context, phone, password string) (*model.Account, error) {
	account, err := s.accountRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("error finding account by phone: %w", err)
	}
	if account == nil {
		// Spend the same bcrypt work as a real comparison
		utils.CheckPasswordHash(password, s.fallbackHash())
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Login authenticates and issues a session token
func (s *authService) Login(ctx context.Context, phone, password string) (*model.Account, string, error) {
	account, err := s.Authenticate(ctx, phone, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(account.ID, account.Role, account.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return account, token, nil
}

// Logout revokes the session's token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, sess session.Session) error {
	if sess.Anonymous() || sess.TokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}

// ParseSession verifies a session token and returns the identity it carries
func (s *authService) ParseSession(ctx context.Context, token string) (session.Session, error) {
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.AccountID <= 0 || !model.ValidRole(claims.Role) {
		return session.Session{}, ErrInvalidSession
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return session.Session{}, err
	}
	if revoked {
		return session.Session{}, ErrInvalidSession
	}

	sess := session.Session{
		AccountID: claims.AccountID,
		Role:      claims.Role,
		Name:      claims.Name,
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func (s *authService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("not-a-real-password")
	})
	return s.dummyHash
}
