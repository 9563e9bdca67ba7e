package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mntc/quiz-server/internal/core/domain"
	"github.com/mntc/quiz-server/internal/core/ports"
)

const (
	sessionContextKey = "session"
	loginPath         = "/login"
)

// RequireSession resolves the session cookie and injects the session into the
// echo context. Anonymous callers are redirected to the login page; the next
// handler is never invoked for them.
func RequireSession(store ports.SessionStore, cookies *CookieCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := cookies.Token(c.Request())
			if err != nil {
				return c.Redirect(http.StatusFound, loginPath)
			}

			sess, err := store.Get(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					c.SetCookie(cookies.Clear())
					return c.Redirect(http.StatusFound, loginPath)
				}
				return err
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session injected by RequireSession.
func SessionFrom(c echo.Context) (*domain.Session, bool) {
	sess, ok := c.Get(sessionContextKey).(*domain.Session)
	return sess, ok && sess != nil
}
