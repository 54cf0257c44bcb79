package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
)

// ErrTokenExpired is returned by Parse when the token is well formed and
// correctly signed but past its expiry.
var ErrTokenExpired = errors.New("token expired")

// JWTManager issues and verifies the bearer tokens used by the API.
// A single HS256 secret and TTL cover every token; there is no refresh flow.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

// Claims carries the authenticated identity. The role claim is advisory;
// the auth gate re-fetches the user record and authorizes on stored state.
type Claims struct {
	UserID string      `json:"uid"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given user and returns it with its expiry.
func (m *JWTManager) Generate(userID string, role entity.Role) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse verifies the signature and expiry and returns the embedded claims.
// Expired tokens return ErrTokenExpired so callers can word the 401 message;
// every other failure means the token is malformed or forged.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
