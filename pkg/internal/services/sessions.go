package services

import (
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type SessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func SessionDuration() time.Duration {
	return viper.GetDuration("security.session_ttl")
}

func sessionSecret() ([]byte, error) {
	secret := viper.GetString("security.session_secret")
	if len(secret) == 0 {
		return nil, newError(ErrConfiguration, "session secret is not configured")
	}
	return []byte(secret), nil
}

func EncodeSessionToken(account models.Account) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := SessionClaims{
		Name:  account.Name,
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    "collab",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tks, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tks, nil
}

func DecodeSessionToken(tk string) (models.Caller, error) {
	secret, err := sessionSecret()
	if err != nil {
		return models.Caller{}, err
	}

	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return secret, nil
	}, jwt.WithIssuer("collab"))
	if err != nil {
		return models.Caller{}, newError(ErrUnauthenticated, err.Error())
	}
	if !token.Valid || len(claims.Subject) == 0 {
		return models.Caller{}, newError(ErrUnauthenticated, "invalid session token")
	}

	return models.Caller{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}, nil
}
