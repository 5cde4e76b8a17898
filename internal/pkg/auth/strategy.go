package auth

import "errors"

var ErrInvalidToken = errors.New("invalid auth token")

// TokenParser resolves a bearer token to the user it was issued for.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

type Options struct {
	Issuer string
}
