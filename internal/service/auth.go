package service

import (
	"card_service/internal/domain"
	"card_service/internal/utils"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultRefreshTTL is the lifetime of a refresh secret from issuance.
const DefaultRefreshTTL = 7 * 24 * time.Hour

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,100}$`)

// AuthService handles registration, login and refresh-secret rotation.
type AuthService struct {
	users      UserStore
	hasher     PasswordHasher
	tokens     *utils.TokenCodec
	refreshTTL time.Duration
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens *utils.TokenCodec, refreshTTL time.Duration, log logrus.FieldLogger) *AuthService {
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

// Register creates an active user with a hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = domain.NormalizeUsername(username)
	if !usernamePattern.MatchString(username) {
		return nil, &domain.ValidationError{Field: "username", Reason: "must be 3-100 characters of a-z, 0-9, '.', '_' or '-'"}
	}
	// bcrypt ignores input past 72 bytes
	if len(password) < 8 || len(password) > 72 {
		return nil, &domain.ValidationError{Field: "password", Reason: "must be 8-72 characters"}
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := domain.NewUser(username, hash, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies the password and issues a new token pair. Every failure is
// ErrInvalidCredentials so callers cannot tell which check failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, domain.NormalizeUsername(username))
	if err != nil {
		return TokenPair{}, err
	}
	if user == nil || !user.IsActive {
		return TokenPair{}, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return TokenPair{}, domain.ErrInvalidCredentials
	}

	pair, digest, expiresAt, err := s.issue(user)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.SetRefreshCredential(ctx, user.ID, digest, expiresAt); err != nil {
		return TokenPair{}, err
	}
	s.log.WithField("user_id", user.ID).Info("User logged in")
	return pair, nil
}

// Refresh exchanges a possibly expired access token and the current refresh
// secret for a new pair. The presented secret is single-use. Any mismatch
// revokes the stored credential, forcing a new login.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshSecret string) (TokenPair, error) {
	if strings.TrimSpace(accessToken) == "" || strings.TrimSpace(refreshSecret) == "" {
		return TokenPair{}, domain.ErrInvalidToken
	}

	claims, err := s.tokens.VerifyExpiredAllowed(accessToken)
	if err != nil {
		return TokenPair{}, domain.ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return TokenPair{}, domain.ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return TokenPair{}, err
	}
	if user == nil || !user.IsActive {
		return TokenPair{}, domain.ErrInvalidToken
	}

	presented := utils.DigestSecret(refreshSecret)
	if !user.HasLiveRefreshCredential(s.now()) || !utils.EqualDigests(*user.RefreshTokenHash, presented) {
		return TokenPair{}, s.revoke(ctx, user.ID)
	}

	pair, digest, expiresAt, err := s.issue(user)
	if err != nil {
		return TokenPair{}, err
	}
	swapped, err := s.users.RotateRefreshCredential(ctx, user.ID, *user.RefreshTokenHash, digest, expiresAt)
	if err != nil {
		return TokenPair{}, err
	}
	if !swapped {
		// a concurrent refresh consumed the secret first; its new pair stays valid
		s.log.WithField("user_id", user.ID).Warn("Refresh lost rotation race")
		return TokenPair{}, domain.ErrInvalidToken
	}
	s.log.WithField("user_id", user.ID).Info("Refresh credential rotated")
	return pair, nil
}

// revoke clears the refresh credential after a failed refresh and returns the
// error the caller should see.
func (s *AuthService) revoke(ctx context.Context, userID uuid.UUID) error {
	entry := s.log.WithField("user_id", userID)
	if err := s.users.ClearRefreshCredential(ctx, userID); err != nil {
		entry.WithError(err).Error("Failed to revoke refresh credential")
		return errors.Join(domain.ErrInvalidToken, err)
	}
	entry.Warn("Refresh rejected, credential revoked")
	return domain.ErrInvalidToken
}

func (s *AuthService) issue(user *domain.User) (TokenPair, string, time.Time, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return TokenPair{}, "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	secret, err := utils.NewRefreshSecret()
	if err != nil {
		return TokenPair{}, "", time.Time{}, err
	}
	expiresAt := s.now().UTC().Add(s.refreshTTL)
	return TokenPair{AccessToken: access, RefreshToken: secret}, utils.DigestSecret(secret), expiresAt, nil
}
