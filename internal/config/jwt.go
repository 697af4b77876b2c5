package config

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const ticketLifetime = 24 * time.Hour

var ErrMalformedTicket = errors.New("malformed ticket")

// JWT issues and verifies session tickets. A ticket is an HS256 token whose
// subject is the id of the session it grants access to.
type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
	now           func() time.Time
}

func NewJWT(c SessionConfig) *JWT {
	return &JWT{
		secret:        []byte(c.Secret),
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: ticketLifetime,
		now:           time.Now,
	}
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
}

func (j *JWT) IssueTicket(sessionId string) (string, error) {
	now := j.now()
	return j.Sign(jwt.RegisteredClaims{
		Subject:   sessionId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
	})
}

// ParseTicket verifies the ticket and returns the session id it was issued
// for.
func (j *JWT) ParseTicket(ticket string) (string, error) {
	token, err := j.ParseWithClaims(ticket, &jwt.RegisteredClaims{})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrMalformedTicket
	}
	return claims.Subject, nil
}
