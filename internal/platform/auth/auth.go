// Package auth issues and checks device session tokens for the storefront API.
// A device trades the shared app key for an HS256 token; the key itself is
// only ever compared against its bcrypt hash.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAppKey = errors.New("invalid app key")
	ErrInvalidToken  = errors.New("invalid or expired session token")
)

type Issuer struct {
	secret     []byte
	appKeyHash []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewIssuer(secret, appKeyHash string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		appKeyHash: []byte(appKeyHash),
		ttl:        ttl,
		now:        time.Now,
	}
}

// HashAppKey is what operators run to produce SESSION_APP_KEY_HASH.
func HashAppKey(appKey string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(appKey), cost)
	if err != nil {
		return "", fmt.Errorf("hash app key: %w", err)
	}
	return string(h), nil
}

// Issue returns a signed token for deviceID when appKey matches the configured hash.
func (i *Issuer) Issue(deviceID, appKey string) (string, time.Time, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || len(i.appKeyHash) == 0 {
		return "", time.Time{}, ErrInvalidAppKey
	}
	if err := bcrypt.CompareHashAndPassword(i.appKeyHash, []byte(appKey)); err != nil {
		return "", time.Time{}, ErrInvalidAppKey
	}

	expiresAt := i.now().Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   deviceID,
		IssuedAt:  jwt.NewNumericDate(i.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify returns the device id carried by a valid token.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
