package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the structured data carried in a reviewer's bearer token.
type Claims struct {
	SessionID string `json:"sid,omitempty"`
	Name      string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Session returns the dismissal session the token belongs to. Tokens without
// an explicit session share one session per subject.
func (c *Claims) Session() string {
	if c.SessionID != "" {
		return c.SessionID
	}
	return c.Subject
}

type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

func NewTokenManager(secret string, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{secretKey: []byte(secret), ttl: ttl, issuer: issuer}
}

// GenerateToken creates a signed token for subject. An empty sessionID gets
// a fresh random one.
func (tm *TokenManager) GenerateToken(subject, name, sessionID string) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		Name:      name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// ValidateToken parses and validates the token string
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if tm.issuer != "" {
		opts = append(opts, jwt.WithIssuer(tm.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secretKey, nil
	}, opts...)

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Session() == "" {
		return nil, errors.New("token carries no session")
	}

	return claims, nil
}
