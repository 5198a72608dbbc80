package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/auth/domain"
	"github.com/lojaweb/storefront-api/internal/auth/google"
	"github.com/lojaweb/storefront-api/internal/logging"
)

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByGoogleSub(ctx context.Context, sub string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
	LinkGoogle(ctx context.Context, id int64, sub string) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(encoded, plain string) (bool, error)
}

type TokenIssuer interface {
	Issue(p auth.Principal) (string, time.Time, error)
}

type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

type AuthService struct {
	accounts AccountStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	google   google.Verifier
	codes    CodeExchanger
}

func NewAuthService(accounts AccountStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{accounts: accounts, hasher: hasher, tokens: tokens}
}

// WithGoogle enables Google sign-in. Either argument may be nil.
func (s *AuthService) WithGoogle(v google.Verifier, codes CodeExchanger) *AuthService {
	s.google = v
	s.codes = codes
	return s
}

// Register creates a password account and signs it in
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Session, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("account registered", zap.Int64("codpes", account.ID))
	return s.session(account)
}

// Login checks email and password
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, error) {
	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	// accounts created through Google have no password
	if account.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(account.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return s.session(account)
}

// LoginWithGoogle signs in with a Google ID token or authorization code.
// An unknown Google subject is linked to the account with the same email, or a new account is created.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req *domain.GoogleLoginRequest) (*domain.Session, error) {
	if s.google == nil {
		return nil, domain.ErrGoogleNotConfigured
	}

	raw := req.Credential
	if raw == "" && req.Code != "" {
		if s.codes == nil {
			return nil, domain.ErrGoogleNotConfigured
		}
		idToken, err := s.codes.Exchange(ctx, req.Code)
		if err != nil {
			return nil, errors.Join(domain.ErrGoogleRejected, err)
		}
		raw = idToken
	}
	if raw == "" {
		return nil, domain.ErrGoogleRejected
	}

	identity, err := s.google.Verify(ctx, raw)
	if err != nil {
		return nil, errors.Join(domain.ErrGoogleRejected, err)
	}

	account, err := s.accounts.GetByGoogleSub(ctx, identity.Subject)
	if err == nil {
		return s.session(account)
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	account, err = s.accounts.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if err := s.accounts.LinkGoogle(ctx, account.ID, identity.Subject); err != nil {
			return nil, err
		}
		account.GoogleSub = identity.Subject
	case errors.Is(err, domain.ErrAccountNotFound):
		account = &domain.Account{Name: identity.Name, Email: identity.Email, GoogleSub: identity.Subject}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Info("account created from google sign-in", zap.Int64("codpes", account.ID))
	default:
		return nil, err
	}

	return s.session(account)
}

// ChangePassword requires the current password unless the account has none yet
func (s *AuthService) ChangePassword(ctx context.Context, id int64, req *domain.ChangePasswordRequest) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if account.PasswordHash != "" {
		if req.Current == "" {
			return domain.ErrInvalidCredentials
		}
		ok, err := s.hasher.Verify(account.PasswordHash, req.Current)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidCredentials
		}
	}

	hash, err := s.hasher.Hash(req.New)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, id, hash)
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, id int64) (*domain.User, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u := account.User()
	return &u, nil
}

func (s *AuthService) session(a *domain.Account) (*domain.Session, error) {
	raw, exp, err := s.tokens.Issue(auth.Principal{ID: a.ID, Email: a.Email, Admin: a.Admin})
	if err != nil {
		return nil, err
	}
	return &domain.Session{Token: raw, ExpiresAt: exp, User: a.User()}, nil
}
