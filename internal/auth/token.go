package auth

import (
	"errors"
	"time"

	"grievance/backend/internal/apperr"
	"grievance/backend/internal/config"
	"grievance/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer      = "grievance-service"
	linkSubject = "telegram-link"
)

// Claims are the custom JWT claims of an access token.
type Claims struct {
	UserID       string      `json:"userId"`
	Role         models.Role `json:"role"`
	DepartmentID string      `json:"departmentId,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the principal used by the services.
func (c *Claims) Actor() models.Actor {
	a := models.Actor{ID: c.UserID, Role: c.Role}
	if c.DepartmentID != "" {
		dept := c.DepartmentID
		a.DepartmentID = &dept
	}
	return a
}

// Tokens signs and verifies HS256 tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), TTL: ttl}
}

// Issue creates an access token for user.
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if user.DepartmentID != nil {
		claims.DepartmentID = *user.DepartmentID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Parse verifies an access token. Link tokens are rejected.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := t.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.Subject == linkSubject || claims.UserID == "" || !claims.Role.Valid() {
		return nil, apperr.Unauthenticated("invalid token")
	}
	return claims, nil
}

// IssueLink creates the short-lived token a user sends to the Telegram bot.
func (t *Tokens) IssueLink(userID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   linkSubject,
		ID:        userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(config.TelegramLinkTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// ParseLink returns the user id carried by a link token.
func (t *Tokens) ParseLink(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := t.parse(tokenStr, claims); err != nil {
		return "", err
	}
	if claims.Subject != linkSubject || claims.ID == "" {
		return "", apperr.Unauthenticated("not a link token")
	}
	return claims.ID, nil
}

func (t *Tokens) parse(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (any, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperr.Unauthenticated("token expired")
	case err != nil || !token.Valid:
		return apperr.Unauthenticated("invalid token")
	}
	return nil
}
