package handlers

import (
	"go-blog-api/internal/i18n"

	"github.com/labstack/echo/v4"
)

// locale resolves the response language for user-facing error text from the
// request's Accept-Language header.
func locale(c echo.Context) string {
	return i18n.Resolve(c.Request().Header.Get("Accept-Language"))
}

// t translates a message key for this request's locale, falling back to the
// key itself when no translation exists.
func t(c echo.Context, key string) string {
	return i18n.T(locale(c), key)
}
