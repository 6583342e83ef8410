package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenValidity is the fixed lifetime of an issued token. There is no
// refresh mechanism; callers authenticate again after expiry.
const TokenValidity = 24 * time.Hour

// HS512 keys shorter than the hash output weaken the signature.
const minSecretLength = 64

var (
	ErrSecretTooShort = errors.New("token secret is too short")
	ErrInvalidToken   = errors.New("invalid token")
)

// Claims is the signed identity assertion carried on every request.
type Claims struct {
	Username string `json:"name"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim back into a user id.
func (c *Claims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed subject claim", ErrInvalidToken)
	}
	return id, nil
}

// TokenIssuer signs identity tokens with a symmetric secret loaded once at
// startup.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer validates the configured secret. A missing or short secret
// is a configuration error and must abort startup.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrSecretTooShort, len(secret), minSecretLength)
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

// Issue signs a token asserting the verified user's id and username.
func (i *TokenIssuer) Issue(userID uint64, username string) (string, error) {
	jti, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of an inbound token and recovers
// its claims.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
