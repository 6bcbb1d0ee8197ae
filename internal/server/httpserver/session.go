package httpserver

import (
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/gotodo/internal/common"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookie = "gotodo_session"
	flashCookie   = "gotodo_flash"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func (s *HTTPServer) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *HTTPServer) setSession(c echo.Context, token string) {
	c.SetCookie(s.cookie(sessionCookie, token, int(s.users.SessionValidity().Seconds())))
}

func (s *HTTPServer) clearSession(c echo.Context) {
	c.SetCookie(s.cookie(sessionCookie, "", -1))
}

func (s *HTTPServer) sessionUserID(c echo.Context) (int64, error) {
	ck, err := c.Cookie(sessionCookie)
	if err != nil || ck.Value == "" {
		return 0, common.ErrorUnauthorized
	}
	return s.users.Authenticate(ck.Value)
}

func (s *HTTPServer) setFlash(c echo.Context, category, message string) {
	v := url.Values{"c": {category}, "m": {message}}
	c.SetCookie(s.cookie(flashCookie, v.Encode(), 0))
}

// popFlash reads and clears the pending flash, if any.
func (s *HTTPServer) popFlash(c echo.Context) *Flash {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.SetCookie(s.cookie(flashCookie, "", -1))

	v, err := url.ParseQuery(ck.Value)
	if err != nil || v.Get("m") == "" {
		return nil
	}
	return &Flash{Category: v.Get("c"), Message: v.Get("m")}
}

// redirectWithFlash is the usual outcome of a page POST.
func (s *HTTPServer) redirectWithFlash(c echo.Context, to, category, message string) error {
	s.setFlash(c, category, message)
	return c.Redirect(http.StatusFound, to)
}
