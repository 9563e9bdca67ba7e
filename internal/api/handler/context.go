package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mntc/quiz-server/internal/api/middleware"
	"github.com/mntc/quiz-server/internal/core/domain"
)

// currentSession returns the session injected by middleware.RequireSession.
// Its absence means the route was registered without the guard; reject with 401
// rather than serve anything.
func currentSession(c echo.Context) (*domain.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
