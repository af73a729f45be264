package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"roomrequests/internal/domain"
)

type codeClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type codeIssuer struct {
	secret []byte
}

// NewCodeIssuer returns a CodeIssuer that signs verification codes with HS256
// using the given secret. Codes carry no expiry: a pending submission may be
// confirmed at any later time.
func NewCodeIssuer(secret string) domain.CodeIssuer {
	return &codeIssuer{secret: []byte(secret)}
}

func (i *codeIssuer) Issue(email string) (string, error) {
	claims := codeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	code, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign verification code: %w", err)
	}
	return code, nil
}

type codeVerifier struct {
	secret []byte
}

// NewCodeVerifier returns a CodeVerifier for codes produced by NewCodeIssuer
// with the same secret.
func NewCodeVerifier(secret string) domain.CodeVerifier {
	return &codeVerifier{secret: []byte(secret)}
}

func (v *codeVerifier) Verify(code string) (string, error) {
	claims := &codeClaims{}
	token, err := jwt.ParseWithClaims(code, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid verification code: %w", err)
	}
	if !token.Valid || claims.Email == "" {
		return "", fmt.Errorf("invalid verification code")
	}
	return claims.Email, nil
}
