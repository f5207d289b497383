package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/utils/uid"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type TokenData struct {
	Sub   string
	Email string
	JTI   string
	Exp   int64
}

// ExpiresAt returns the token expiry as a time value.
func (t *TokenData) ExpiresAt() time.Time {
	return time.Unix(t.Exp, 0).UTC()
}

type TokenClaims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens. One instance is built
// at startup and passed to whoever needs it.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	ids      *uid.Generator
	now      func() time.Time
}

func NewTokenManager(secret, issuer, audience string, ttl time.Duration, ids *uid.Generator) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		ids:      ids,
		now:      time.Now,
	}
}

func (t *TokenManager) Issue(user *entity.User) (string, *TokenData, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	jti := t.ids.GenerateString()

	claims := &TokenClaims{
		Email:      user.Email,
		GivenName:  user.FirstName,
		FamilyName: user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, &TokenData{
		Sub:   user.ID,
		Email: user.Email,
		JTI:   jti,
		Exp:   exp.Unix(),
	}, nil
}

// Validate parses AND validates the signature, issuer, audience and expiry.
// It returns the data if the token is authentic and unexpired.
func (t *TokenManager) Validate(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, errors.New("token is empty")
	}

	var claims TokenClaims
	token, err := jwt.ParseWithClaims(clean, &claims, t.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("token is missing subject or id")
	}

	return &TokenData{
		Sub:   claims.Subject,
		Email: claims.Email,
		JTI:   claims.ID,
		Exp:   claims.ExpiresAt.Unix(),
	}, nil
}

func (t *TokenManager) ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return t.Validate(token)
}

func (t *TokenManager) keyFunc(_ *jwt.Token) (any, error) {
	return t.secret, nil
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}
