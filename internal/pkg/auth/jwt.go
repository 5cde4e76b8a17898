package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

const defaultIssuer = "verigate"

// JWTVerifier accepts HS256 tokens whose subject is the user id.
// Tokens are issued elsewhere; this service only verifies them.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier builds JWTVerifier with provided secret and options.
func NewJWTVerifier(secret string, opts Options) *JWTVerifier {
	issuer := opts.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

// ParseToken validates token and returns the user id from its subject.
func (v *JWTVerifier) ParseToken(token string) (int64, error) {
	if len(v.secret) == 0 {
		return 0, ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
