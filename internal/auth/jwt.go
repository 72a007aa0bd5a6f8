package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Token is a signed session token and the claims inside it.
type Token struct {
	Value     string
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

func (i *Issuer) Generate(userID, email string) (Token, error) {
	now := i.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("signing token: %w", err)
	}
	return Token{
		Value:     signed,
		ID:        claims.ID,
		UserID:    userID,
		Email:     email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (i *Issuer) Verify(tokenString string) (Token, error) {
	claims := &Claims{}
	parser := jwt.Parser{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Token{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(i.now()) || claims.Subject == "" || claims.ID == "" {
		return Token{}, ErrInvalidToken
	}
	return Token{
		Value:     tokenString,
		ID:        claims.ID,
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
