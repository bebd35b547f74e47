package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose separates confirmation links from session tokens.
// Each purpose signs with its own secret and TTL.
type TokenPurpose string

const (
	PurposeConfirmation TokenPurpose = "confirmation"
	PurposeSession      TokenPurpose = "session"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is only returned for tokens whose signature checked out.
	ErrTokenExpired = errors.New("token expired")
)

// JWTManager issues and verifies stateless HS256 tokens.
type JWTManager struct {
	ConfirmationSecret []byte
	SessionSecret      []byte
	ConfirmationTTL    time.Duration
	SessionTTL         time.Duration
}

func NewJWTManager(confirmationSecret, sessionSecret string, confirmationTTL, sessionTTL time.Duration) *JWTManager {
	return &JWTManager{
		ConfirmationSecret: []byte(confirmationSecret),
		SessionSecret:      []byte(sessionSecret),
		ConfirmationTTL:    confirmationTTL,
		SessionTTL:         sessionTTL,
	}
}

type Claims struct {
	UserID  string       `json:"uid"`
	Purpose TokenPurpose `json:"pur"`
	jwt.RegisteredClaims
}

func (m *JWTManager) keyFor(p TokenPurpose) ([]byte, time.Duration, bool) {
	switch p {
	case PurposeConfirmation:
		return m.ConfirmationSecret, m.ConfirmationTTL, true
	case PurposeSession:
		return m.SessionSecret, m.SessionTTL, true
	}
	return nil, 0, false
}

// Issue signs a token for subject that expires after the purpose's TTL.
func (m *JWTManager) Issue(subject string, purpose TokenPurpose) (string, time.Time, error) {
	secret, ttl, ok := m.keyFor(purpose)
	if !ok {
		return "", time.Time{}, errors.New("unknown token purpose")
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:  subject,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

// Verify returns the subject of a valid token. For an expired token with a good
// signature it returns the subject together with ErrTokenExpired; every other
// failure is ErrTokenInvalid with an empty subject.
func (m *JWTManager) Verify(tokenStr string, purpose TokenPurpose) (string, error) {
	secret, _, ok := m.keyFor(purpose)
	if !ok {
		return "", ErrTokenInvalid
	}
	claims, err := parseToken(tokenStr, secret)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid):
		if claims.Purpose != purpose || claims.UserID == "" {
			return "", ErrTokenInvalid
		}
		return claims.UserID, ErrTokenExpired
	default:
		return "", ErrTokenInvalid
	}
	if claims.Purpose != purpose || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return claims, err
	}
	if !tkn.Valid {
		return claims, errors.New("invalid token")
	}
	return claims, nil
}
