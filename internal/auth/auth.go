// Package auth issues the signed session cookie set on successful
// login. The cookie value is a JWT whose claims carry the user ID.
package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
)

// Auth signs session cookies with an HMAC secret.
type Auth struct {
	// cookieName is the name of the cookie used to store the JWT.
	cookieName string

	// signingSecretKey is the key used to sign JWTs.
	signingSecretKey []byte
}

// Claims represents the JWT claims used by the system.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// New creates an Auth with the given cookie name and signing secret.
func New(cookieName string, signingSecretKey []byte) *Auth {
	return &Auth{
		cookieName:       cookieName,
		signingSecretKey: signingSecretKey,
	}
}

// SetSessionCookie signs a JWT for userID and attaches it to the
// response as a cookie.
func (a *Auth) SetSessionCookie(response http.ResponseWriter, userID string) error {
	jwtString, err := a.buildJWTString(&Claims{UserID: userID})
	if err != nil {
		return err
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:  a.cookieName,
			Value: jwtString,
		},
	)

	return nil
}

// ParseUserID extracts and validates the user ID from a signed token
// string. It returns an empty string for a missing or invalid token.
func (a *Auth) ParseUserID(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return a.signingSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return "", nil
	}

	return claims.UserID, nil
}

func (a *Auth) buildJWTString(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, *claims)

	tokenString, err := token.SignedString(a.signingSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
