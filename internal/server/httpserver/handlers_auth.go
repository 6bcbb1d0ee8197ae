package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) index(c echo.Context) error {
	if _, err := s.sessionUserID(c); err == nil {
		return c.Redirect(http.StatusFound, "/todo")
	}
	return c.Redirect(http.StatusFound, "/signup")
}

func (s *HTTPServer) signupForm(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", page{Heading: "Sign up", Flash: s.popFlash(c)})
}

func (s *HTTPServer) signup(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue("username")

	_, err := s.users.Register(ctx, username, c.FormValue("email"), c.FormValue("password"))
	s.metrics.AuthOp("signup", err)

	switch {
	case err == nil:
		s.logger.Info(ctx, "Registered", "username", username)
		return s.redirectWithFlash(c, "/login", FlashSuccess, "Registration successful. Please log in.")
	case errors.Is(err, common.ErrDuplicateEmail):
		return s.redirectWithFlash(c, "/signup", FlashDanger, "Email already registered.")
	case errors.Is(err, common.ErrDuplicateUsername):
		return s.redirectWithFlash(c, "/signup", FlashDanger, "Username already taken.")
	case errors.Is(err, common.ErrorValidation):
		return s.redirectWithFlash(c, "/signup", FlashWarning,
			validationMessage(err, "Username, email and password are required."))
	default:
		return s.internalError(c, err)
	}
}

func (s *HTTPServer) loginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", page{Heading: "Log in", Flash: s.popFlash(c)})
}

func (s *HTTPServer) login(c echo.Context) error {
	ctx := c.Request().Context()

	user, token, err := s.users.Login(ctx, c.FormValue("username"), c.FormValue("password"))
	s.metrics.AuthOp("login", err)

	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return c.Render(http.StatusOK, "login", page{
				Heading: "Log in",
				Flash:   &Flash{Category: FlashDanger, Message: "Invalid username or password."},
			})
		}
		return s.internalError(c, err)
	}

	s.setSession(c, token)
	s.logger.Info(ctx, "Logged in", "user_id", user.ID)
	return c.Redirect(http.StatusFound, "/todo")
}

func (s *HTTPServer) logout(c echo.Context) error {
	s.clearSession(c)
	return s.redirectWithFlash(c, "/login", FlashSuccess, "You have been logged out.")
}

func (s *HTTPServer) healthz(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		s.logger.Error(c.Request().Context(), "health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// validationMessage turns "validation error: title is required" into
// "Title is required.", or returns fallback for a bare ErrorValidation.
func validationMessage(err error, fallback string) string {
	msg, ok := strings.CutPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	if !ok || msg == "" {
		return fallback
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func (s *HTTPServer) internalError(c echo.Context, err error) error {
	s.logger.Error(c.Request().Context(), err.Error())
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
