package utils

import (
	"card_service/internal/domain" // Domain models and error taxonomy
	"errors"
	"fmt"
	"slices"
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token ids
)

// MinSecretLength is the shortest HS256 key accepted by NewTokenCodec.
const MinSecretLength = 32

// DefaultAccessTTL is used when TokenConfig.AccessTTL is zero.
const DefaultAccessTTL = 15 * time.Minute

// TokenConfig holds the signing configuration for access tokens.
type TokenConfig struct {
	Secret    string        // Symmetric HS256 key
	Issuer    string        // iss claim
	Audience  string        // aud claim
	AccessTTL time.Duration // Access token lifetime
}

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	Subject   string    // User id
	Username  string    // Normalized username
	TokenID   string    // jti
	IssuedAt  time.Time // iat
	ExpiresAt time.Time // exp
}

// accessClaims is the wire form of the token payload
type accessClaims struct {
	Username             string `json:"unique_name"` // Custom claim for the username
	jwt.RegisteredClaims        // Standard JWT claims
}

// TokenCodec creates and verifies signed access tokens.
type TokenCodec struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenCodec validates cfg and returns a codec bound to it.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("jwt issuer and audience are required")
	}
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &TokenCodec{
		key:      []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// IssueAccessToken creates a short-lived token for user
func (c *TokenCodec) IssueAccessToken(user *domain.User) (string, error) {
	now := c.now().UTC()
	// Set token claims
	claims := accessClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(c.key)                           // Sign the token with the key
}

// VerifyActive validates signature, algorithm, issuer, audience and expiry.
func (c *TokenCodec) VerifyActive(tokenStr string) (*TokenClaims, error) {
	claims, err := c.parse(tokenStr,
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}
	return claims.toTokenClaims(), nil
}

// VerifyExpiredAllowed validates signature, algorithm, issuer and audience but
// accepts an expired token. Only the refresh flow may use it.
func (c *TokenCodec) VerifyExpiredAllowed(tokenStr string) (*TokenClaims, error) {
	claims, err := c.parse(tokenStr, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	if claims.Issuer != c.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer", domain.ErrInvalidToken)
	}
	if !slices.Contains(claims.Audience, c.audience) {
		return nil, fmt.Errorf("%w: unexpected audience", domain.ErrInvalidToken)
	}
	return claims.toTokenClaims(), nil
}

func (c *TokenCodec) parse(tokenStr string, opts ...jwt.ParserOption) (*accessClaims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.key, nil // Return the key for validation
	}, opts...)
	// Check for parsing errors
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (a *accessClaims) toTokenClaims() *TokenClaims {
	out := &TokenClaims{
		Subject:  a.Subject,
		Username: a.Username,
		TokenID:  a.ID,
	}
	if a.IssuedAt != nil {
		out.IssuedAt = a.IssuedAt.Time
	}
	if a.ExpiresAt != nil {
		out.ExpiresAt = a.ExpiresAt.Time
	}
	return out
}
