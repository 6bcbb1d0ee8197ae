package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/server/services"
	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) todoList(c echo.Context) error {
	items, err := s.todos.ListTodayTodos(c.Request().Context(), SessionUserID(c))
	if err != nil {
		return s.internalError(c, err)
	}
	return s.renderToday(c, items, s.popFlash(c))
}

func (s *HTTPServer) todoCreate(c echo.Context) error {
	ctx := c.Request().Context()

	to := c.FormValue("to_time")
	if to == "" {
		to = c.FormValue("To_time")
	}
	created, today, err := s.todos.CreateTodo(ctx, SessionUserID(c), services.NewTodo{
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		FromTime: c.FormValue("from_time"),
		ToTime:   to,
		Date:     c.FormValue("date_created"),
	})
	s.metrics.TodoOp("create", err)

	switch {
	case err == nil:
		s.logger.Info(ctx, "Todo created", "sno", created.Sno, "user_id", created.UserID)
		return s.renderToday(c, today, &Flash{Category: FlashSuccess, Message: "Task added."})
	case errors.Is(err, common.ErrorValidation):
		return s.redirectWithFlash(c, "/todo", FlashWarning,
			validationMessage(err, "Title, description, from and to time are required."))
	case errors.Is(err, common.ErrInvalidDate):
		return s.redirectWithFlash(c, "/todo", FlashWarning, "Invalid date, expected YYYY-MM-DD.")
	default:
		return s.internalError(c, err)
	}
}

func (s *HTTPServer) renderToday(c echo.Context, items []*models.Todo, flash *Flash) error {
	return c.Render(http.StatusOK, "todo", page{
		User:    sessionUser(c),
		Flash:   flash,
		Today:   s.todos.Today(),
		Heading: "Today",
		Todos:   items,
	})
}

func (s *HTTPServer) todoDelete(c echo.Context) error {
	sno, ok := parseSno(c)
	if !ok {
		return s.mutationFailed(c, "delete", common.ErrorNotFound)
	}

	err := s.todos.DeleteTodo(c.Request().Context(), SessionUserID(c), sno)
	s.metrics.TodoOp("delete", err)
	if err != nil {
		return s.mutationFailed(c, "delete", err)
	}
	return s.redirectWithFlash(c, "/todo", FlashSuccess, "Task deleted.")
}

func (s *HTTPServer) todoEditForm(c echo.Context) error {
	sno, ok := parseSno(c)
	if !ok {
		return s.mutationFailed(c, "update", common.ErrorNotFound)
	}

	todo, err := s.todos.GetTodo(c.Request().Context(), SessionUserID(c), sno)
	if err != nil {
		return s.mutationFailed(c, "update", err)
	}
	return c.Render(http.StatusOK, "update", page{
		User:    sessionUser(c),
		Flash:   s.popFlash(c),
		Heading: "Edit task",
		Todo:    todo,
		Past:    s.todos.IsPast(todo),
	})
}

func (s *HTTPServer) todoUpdate(c echo.Context) error {
	sno, ok := parseSno(c)
	if !ok {
		return s.mutationFailed(c, "update", common.ErrorNotFound)
	}

	err := s.todos.UpdateTodo(c.Request().Context(), SessionUserID(c), sno, c.FormValue("title"), c.FormValue("content"))
	s.metrics.TodoOp("update", err)
	if err != nil {
		return s.mutationFailed(c, "update", err)
	}
	return s.redirectWithFlash(c, "/todo", FlashSuccess, "Task updated.")
}

func (s *HTTPServer) todoComplete(c echo.Context) error {
	sno, ok := parseSno(c)
	if !ok {
		return s.mutationFailed(c, "complete", common.ErrorNotFound)
	}

	_, err := s.todos.ToggleComplete(c.Request().Context(), SessionUserID(c), sno)
	s.metrics.TodoOp("complete", err)
	if err != nil {
		return s.mutationFailed(c, "complete", err)
	}
	return c.Redirect(http.StatusFound, backTo(c))
}

// mutationFailed turns a todo operation error into a flash and a redirect
// to the today page. Unexpected errors become a 500.
func (s *HTTPServer) mutationFailed(c echo.Context, verb string, err error) error {
	switch {
	case errors.Is(err, common.ErrPastTaskImmutable):
		return s.redirectWithFlash(c, "/todo", FlashWarning, "You cannot "+verb+" past tasks.")
	case errors.Is(err, common.ErrorNotFound):
		return s.redirectWithFlash(c, "/todo", FlashDanger, "Todo not found.")
	case errors.Is(err, common.ErrorValidation):
		return s.redirectWithFlash(c, "/todo", FlashWarning,
			validationMessage(err, "Title and description are required."))
	default:
		return s.internalError(c, err)
	}
}

func (s *HTTPServer) listTasks(c echo.Context) error {
	return s.renderList(c, "All tasks", s.todos.ListAll)
}

func (s *HTTPServer) listPending(c echo.Context) error {
	return s.renderList(c, "Pending tasks", s.todos.ListPending)
}

func (s *HTTPServer) listCompleted(c echo.Context) error {
	return s.renderList(c, "Completed tasks", s.todos.ListCompleted)
}

type listFunc func(ctx context.Context, scope int64) ([]*models.Todo, error)

func (s *HTTPServer) renderList(c echo.Context, heading string, list listFunc) error {
	items, err := list(c.Request().Context(), SessionUserID(c))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.Render(http.StatusOK, "tasks", page{
		User:    sessionUser(c),
		Flash:   s.popFlash(c),
		Heading: heading,
		Todos:   items,
	})
}

func parseSno(c echo.Context) (int64, bool) {
	sno, err := strconv.ParseInt(c.Param("sno"), 10, 64)
	return sno, err == nil && sno > 0
}

// backTo returns the same-site Referer path, or /todo.
func backTo(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" {
		return "/todo"
	}
	if ref.Host != "" && ref.Host != c.Request().Host {
		return "/todo"
	}
	return ref.RequestURI()
}
