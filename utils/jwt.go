package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// PasswordSetupPurpose marks tokens that let a new customer choose a password.
const PasswordSetupPurpose = "password_setup"

var ErrInvalidToken = errors.New("invalid token")

// TokenSigner issues and verifies HMAC-signed tokens.
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), now: time.Now}
}

// GeneratePasswordSetupToken creates a token for customerID that expires after ttl.
func (s *TokenSigner) GeneratePasswordSetupToken(customerID, email string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub":     customerID,
		"email":   email,
		"purpose": PasswordSetupPurpose,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParsePasswordSetupToken validates a password setup token and returns its subject.
func (s *TokenSigner) ParsePasswordSetupToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if purpose, _ := claims["purpose"].(string); purpose != PasswordSetupPurpose {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

