package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const issuer = "go-dairy-ledger"

// Claims represents the session carried by the token.
// AdminID and DairyID are both optional; an impersonating admin carries both.
type Claims struct {
	AdminID   string `json:"admin_id,omitempty"`
	DairyID   string `json:"dairy_id,omitempty"`
	DairyName string `json:"dairy_name,omitempty"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// Signer issues and verifies session tokens with one HMAC secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if secret == "" {
		secret = "your-super-secret-key-change-in-production"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// TTL is how long issued tokens stay valid.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// GenerateToken creates a new signed token for the given session claims
func (s *Signer) GenerateToken(adminID, dairyID, dairyName, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		AdminID:   adminID,
		DairyID:   dairyID,
		DairyName: dairyName,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a token
func (s *Signer) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
