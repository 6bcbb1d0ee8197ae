package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) calendar(c echo.Context) error {
	return c.Render(http.StatusOK, "calendar", page{
		User:    sessionUser(c),
		Flash:   s.popFlash(c),
		Heading: "Calendar",
		Today:   s.todos.Today(),
	})
}

func (s *HTTPServer) events(c echo.Context) error {
	events, err := s.todos.ListEvents(c.Request().Context(), SessionUserID(c))
	if err != nil {
		s.logger.Error(c.Request().Context(), err.Error())
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, events)
}

func (s *HTTPServer) todosByDate(c echo.Context) error {
	items, err := s.todos.ListTodosByDate(c.Request().Context(), SessionUserID(c), c.Param("date"))
	if err != nil {
		if errors.Is(err, common.ErrInvalidDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		s.logger.Error(c.Request().Context(), err.Error())
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, items)
}
