package fakezone

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "fakezone"

// Tokens issues and verifies access tokens. JWTs are HS256-signed; opaque
// tokens and fixed tokens are kept in a session table.
type Tokens struct {
	mu       sync.RWMutex
	secret   []byte
	ttl      time.Duration
	opaque   bool
	fixed    string
	sessions map[string]string // token -> user id
}

func NewTokens(secret []byte, ttl time.Duration, opaque bool, fixed string) (*Tokens, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating signing secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tokens{
		secret:   secret,
		ttl:      ttl,
		opaque:   opaque,
		fixed:    fixed,
		sessions: make(map[string]string),
	}, nil
}

// Issue returns a token for userID.
func (t *Tokens) Issue(userID string) (string, error) {
	switch {
	case t.fixed != "":
		t.remember(t.fixed, userID)
		return t.fixed, nil
	case t.opaque:
		tok := "sess_" + uuid.NewString()
		t.remember(tok, userID)
		return tok, nil
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) remember(token, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[token] = userID
}

// Verify returns the user id a token was issued to.
func (t *Tokens) Verify(token string) (string, error) {
	t.mu.RLock()
	userID, ok := t.sessions[token]
	t.mu.RUnlock()
	if ok {
		return userID, nil
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
