package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoExpiry     = errors.New("token carries no expiry")
)

// Service issues the console session tokens handed to the browser. A token
// names the operator workspace; the remote credential never leaves the
// console.
type Service struct {
	secret []byte
	ttl    time.Duration
}

type Claims struct {
	WorkspaceID string `json:"workspace_id"`
	Username    string `json:"username"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) GenerateToken(workspaceID, username string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		WorkspaceID: workspaceID,
		Username:    username,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   workspaceID,
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.WorkspaceID == "" {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}

// ExpiresAt reads the exp claim of a token issued by someone else (the
// remote lead nurture API). The signature is not checked: the console only
// uses this to avoid dispatching calls with a credential that has already
// lapsed, the remote stays the authority.
func ExpiresAt(tokenStr string) (time.Time, error) {
	parser := jwtlib.NewParser()
	claims := jwtlib.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return time.Time{}, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}
