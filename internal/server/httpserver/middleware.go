package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/logging"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	headerRequestID = "X-Request-ID"

	ctxUserID = "session_user_id"
	ctxUser   = "session_user"
)

// requestID tags the request context with the incoming X-Request-ID or a
// fresh uuid and echoes it back in the response.
func (s *HTTPServer) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(headerRequestID, id)

		req := c.Request()
		c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		return next(c)
	}
}

// accessLog logs and measures every request. Handler errors are committed
// here so the recorded status is the one the client sees.
func (s *HTTPServer) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			c.Error(err)
		}

		req := c.Request()
		status := c.Response().Status
		elapsed := time.Since(start)

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(req.Method, route, status, elapsed)

		args := []any{"method", req.Method, "path", req.URL.Path, "status", status, "latency", elapsed.String()}
		if status >= http.StatusInternalServerError {
			s.logger.Error(req.Context(), "request", args...)
		} else {
			s.logger.Info(req.Context(), "request", args...)
		}
		return nil
	}
}

func (s *HTTPServer) logPanic(c echo.Context, err error, stack []byte) error {
	s.logger.Error(c.Request().Context(), "panic recovered", "error", err, "stack", string(stack))
	return err
}

// requireSession resolves the session cookie to a user once per request.
// Anything short of a valid session for an existing user goes to /login.
func (s *HTTPServer) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		userID, err := s.sessionUserID(c)
		if err != nil {
			s.logger.Debug(ctx, "no valid session", "error", err)
			s.clearSession(c)
			return c.Redirect(http.StatusFound, "/login")
		}

		user, err := s.users.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.clearSession(c)
				return c.Redirect(http.StatusFound, "/login")
			}
			return s.internalError(c, err)
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUser, user)
		return next(c)
	}
}

// SessionUserID returns the id of the signed-in user of a guarded request.
func SessionUserID(c echo.Context) int64 {
	id, _ := c.Get(ctxUserID).(int64)
	return id
}

func sessionUser(c echo.Context) *models.User {
	u, _ := c.Get(ctxUser).(*models.User)
	return u
}
