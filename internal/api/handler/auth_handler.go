package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mntc/quiz-server/internal/api/metrics"
	"github.com/mntc/quiz-server/internal/api/middleware"
	"github.com/mntc/quiz-server/internal/core/domain"
	"github.com/mntc/quiz-server/internal/core/ports"
)

const (
	msgLoginOK       = "User authenticated successfully"
	msgLoginFailed   = "Authentication failed"
	msgSignupOK      = "User created successfully"
	msgSignupFailed  = "Failed to create user"
	msgInvalidBody   = "invalid payload"
	loginPlaceholder = "<h1>Login Page</h1>"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     *middleware.CookieCodec
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies *middleware.CookieCodec, m *metrics.Metrics, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, metrics: m, logger: logger}
}

// Signup creates a new user at level 1.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      200   {object}  signupResponse
// @Failure      400   {object}  signupResponse
// @Failure      500   {object}  signupResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, signupResponse{Success: false, Msg: msgInvalidBody})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, signupResponse{Success: false, Msg: err.Error()})
	}

	_, err := h.authService.Signup(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			h.metrics.SignupsTotal.WithLabelValues(metrics.ResultMissingFields).Inc()
			return c.JSON(http.StatusBadRequest, signupResponse{Success: false, Msg: err.Error()})
		case errors.Is(err, domain.ErrUsernameTaken):
			h.metrics.SignupsTotal.WithLabelValues(metrics.ResultUsernameTaken).Inc()
			return c.JSON(http.StatusBadRequest, signupResponse{Success: false, Msg: err.Error()})
		}
		h.metrics.SignupsTotal.WithLabelValues(metrics.ResultError).Inc()
		h.logger.Error().Err(err).Str("username", req.Username).Msg("signup failed")
		return c.JSON(http.StatusInternalServerError, signupResponse{Success: false, Msg: msgSignupFailed})
	}

	h.metrics.SignupsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, signupResponse{Success: true, Msg: msgSignupOK})
}

// Login authenticates the user and issues a fresh session cookie. Any session
// presented with the request is destroyed first.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  loginResponse
// @Failure      413   {object}  loginResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, loginResponse{Auth: false, Msg: msgInvalidBody})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, loginResponse{Auth: false, Msg: err.Error()})
	}

	previous, _ := h.cookies.Token(c.Request())

	sess, err := h.authService.Login(c.Request().Context(), previous, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			h.metrics.LoginsTotal.WithLabelValues(metrics.ResultUserNotFound).Inc()
			return c.JSON(http.StatusRequestEntityTooLarge, loginResponse{Auth: false, Msg: err.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
			return c.JSON(http.StatusRequestEntityTooLarge, loginResponse{Auth: false, Msg: err.Error()})
		case errors.Is(err, domain.ErrHashing):
			h.metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
			h.logger.Error().Err(err).Str("username", req.Username).Msg("could not authenticate user")
			return c.JSON(http.StatusRequestEntityTooLarge, loginResponse{Auth: false, Msg: msgLoginFailed})
		}
		h.metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	cookie, err := h.cookies.Issue(sess)
	if err != nil {
		h.metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	c.SetCookie(cookie)

	h.metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, loginResponse{Auth: true, Msg: msgLoginOK})
}

// Logout destroys the session and redirects home.
//
// @Summary      Log out
// @Tags         auth
// @Success      302
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token, err := h.cookies.Token(c.Request()); err == nil {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			h.logger.Warn().Err(err).Msg("logout failed to destroy session")
		}
	}
	c.SetCookie(h.cookies.Clear())
	return c.Redirect(http.StatusFound, "/")
}

// LoginPage serves the placeholder login page the redirects point at.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.HTML(http.StatusOK, loginPlaceholder)
}

// Root redirects to the login page.
func (h *AuthHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/login")
}
