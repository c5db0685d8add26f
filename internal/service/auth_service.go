package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"physical-ai-textbook-be/internal/dto"
	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/internal/pkg/logger"
	"physical-ai-textbook-be/internal/pkg/security"
	"physical-ai-textbook-be/internal/repository/specification"
	"physical-ai-textbook-be/internal/repository/unitofwork"
	"physical-ai-textbook-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken          = errors.New("Email already registered")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInvalidRefreshToken = errors.New("Invalid or expired refresh token")
	ErrUserNotFound        = errors.New("User not found")
	ErrAccountLocked       = errors.New("Account temporarily locked")
)

// AccountLockedError is returned while a lockout is in force.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("%s. Try again after %s", ErrAccountLocked, e.Until.UTC().Format(time.RFC3339))
}

func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}

// TokenRevoker remembers logged-out tokens until they expire.
type TokenRevoker interface {
	Revoke(jti string, expiresAt time.Time)
	IsRevoked(jti string) bool
}

type AuthConfig struct {
	BcryptCost        int
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, client dto.ClientInfo) (*dto.AuthResponse, *dto.AuthTokens, error)
	Login(ctx context.Context, req *dto.LoginRequest, client dto.ClientInfo) (*dto.AuthResponse, *dto.AuthTokens, error)
	Logout(ctx context.Context, userID uuid.UUID, access *security.Claims, refreshToken string, client dto.ClientInfo) error
	Refresh(ctx context.Context, refreshToken string, client dto.ClientInfo) (string, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserWithProfile, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	tokens         *security.TokenManager
	revoker        TokenRevoker
	audit          IAuditService
	eventPublisher events.Publisher
	cfg            AuthConfig
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *security.TokenManager,
	revoker TokenRevoker,
	audit IAuditService,
	eventPublisher events.Publisher,
	cfg AuthConfig,
	log logger.ILogger,
) IAuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = security.DefaultBcryptCost
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &authService{
		uowFactory:     uowFactory,
		tokens:         tokens,
		revoker:        revoker,
		audit:          audit,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, client dto.ClientInfo) (*dto.AuthResponse, *dto.AuthTokens, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same address.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	s.audit.Record(ctx, entity.AuditRegistration, &user.Id, client, map[string]interface{}{"email": user.Email})
	s.publish(ctx, events.UserRegistered, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})

	tokens, err := s.issueTokens(user.Id)
	if err != nil {
		return nil, nil, err
	}

	return &dto.AuthResponse{
		User:       toUserBasic(user),
		Message:    "Registration successful",
		HasProfile: false,
	}, tokens, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, client dto.ClientInfo) (*dto.AuthResponse, *dto.AuthTokens, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		s.audit.Record(ctx, entity.AuditLoginFailed, nil, client, map[string]interface{}{
			"email":  email,
			"reason": "user_not_found",
		})
		s.publish(ctx, events.LoginFailed, map[string]interface{}{"email": email, "reason": "user_not_found"})
		return nil, nil, ErrInvalidCredentials
	}

	now := timeNow()
	if user.IsLocked(now) {
		return nil, nil, &AccountLockedError{Until: *user.LockedUntil}
	}

	if user.LockedUntil != nil {
		// The lock ran out; start counting failures from zero again.
		user.LockedUntil = nil
		user.FailedLoginAttempts = 0
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, nil, err
		}
		s.audit.Record(ctx, entity.AuditAccountUnlocked, &user.Id, client, nil)
	}

	if !security.VerifyPassword(user.PasswordHash, req.Password) {
		if err := s.recordFailedLogin(ctx, user.Id, client, now); err != nil {
			return nil, nil, err
		}
		return nil, nil, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, nil, err
	}

	s.audit.Record(ctx, entity.AuditLoginSuccess, &user.Id, client, nil)
	s.publish(ctx, events.UserLogin, map[string]interface{}{
		"user_id":    user.Id.String(),
		"ip_address": client.IpAddress,
	})

	profile, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user.Id)
	if err != nil {
		return nil, nil, err
	}

	return &dto.AuthResponse{
		User:       toUserBasic(user),
		Message:    "Login successful",
		HasProfile: profile != nil,
	}, tokens, nil
}

// recordFailedLogin counts a wrong password under a row lock, so concurrent
// attempts against one account are all counted, and locks the account once the
// limit is reached.
func (s *authService) recordFailedLogin(ctx context.Context, userID uuid.UUID, client dto.ClientInfo, now time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID}, specification.ForUpdate{})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.FailedLoginAttempts++
	locked := user.FailedLoginAttempts >= s.cfg.MaxFailedAttempts
	if locked {
		until := now.Add(s.cfg.LockoutDuration)
		user.LockedUntil = &until
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if locked {
		s.audit.Record(ctx, entity.AuditAccountLocked, &user.Id, client, map[string]interface{}{
			"failed_attempts": user.FailedLoginAttempts,
		})
		s.publish(ctx, events.AccountLocked, map[string]interface{}{
			"user_id":         user.Id.String(),
			"email":           user.Email,
			"locked_until":    user.LockedUntil.Format(time.RFC3339),
			"failed_attempts": user.FailedLoginAttempts,
			"ip_address":      client.IpAddress,
		})
	}

	s.audit.Record(ctx, entity.AuditLoginFailed, nil, client, map[string]interface{}{
		"email":  user.Email,
		"reason": "invalid_password",
	})
	s.publish(ctx, events.LoginFailed, map[string]interface{}{"email": user.Email, "reason": "invalid_password"})
	return nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, access *security.Claims, refreshToken string, client dto.ClientInfo) error {
	if access != nil && access.ExpiresAt != nil {
		s.revoker.Revoke(access.ID, access.ExpiresAt.Time)
	}
	if refreshToken != "" {
		if claims, err := s.tokens.Parse(refreshToken, security.TokenTypeRefresh); err == nil {
			s.revoker.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
	}

	s.audit.Record(ctx, entity.AuditLogout, &userID, client, nil)
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string, client dto.ClientInfo) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, security.TokenTypeRefresh)
	if err != nil || s.revoker.IsRevoked(claims.ID) {
		return "", ErrInvalidRefreshToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	s.audit.Record(ctx, entity.AuditTokenRefreshed, &user.Id, client, nil)

	access, _, err := s.tokens.Issue(user.Id, security.TokenTypeAccess)
	if err != nil {
		return "", err
	}
	return access, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserWithProfile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}

	return &dto.UserWithProfile{
		Id:        user.Id,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		Profile:   toProfileResponse(profile),
	}, nil
}

func (s *authService) issueTokens(userID uuid.UUID) (*dto.AuthTokens, error) {
	access, _, err := s.tokens.Issue(userID, security.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.Issue(userID, security.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &dto.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := events.Publish(ctx, s.eventPublisher, events.New(eventType, data)); err != nil {
		s.logger.Warn("AUTH", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserBasic(u *entity.User) dto.UserBasic {
	return dto.UserBasic{Id: u.Id, Email: u.Email, CreatedAt: u.CreatedAt}
}
