package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mntc/quiz-server/internal/core/domain"
)

// CookieName is the session cookie. Its value is an HS256 JWT whose jti is the
// session token, so a forged or tampered cookie is rejected before any store lookup.
const CookieName = "quiz.sid"

var ErrNoSessionCookie = errors.New("no valid session cookie")

// CookieCodec issues and reads signed session cookies.
type CookieCodec struct {
	secret []byte
	secure bool
}

func NewCookieCodec(secret string, secure bool) *CookieCodec {
	return &CookieCodec{secret: []byte(secret), secure: secure}
}

// Issue returns a cookie carrying sess.Token that expires with the session.
func (cc *CookieCodec) Issue(sess *domain.Session) (*http.Cookie, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.Token,
		Subject:   sess.Username,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cc.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   cc.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear returns a cookie that removes the session cookie from the browser.
func (cc *CookieCodec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Token extracts the session token from a request. Missing, malformed,
// badly signed and expired cookies all return ErrNoSessionCookie.
func (cc *CookieCodec) Token(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSessionCookie
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return cc.secret, nil
	})
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", ErrNoSessionCookie
	}
	return claims.ID, nil
}
