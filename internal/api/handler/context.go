package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextUsername is the echo.Context key the BasicAuth middleware stores the
// authenticated username under.
const ContextUsername = "username"

// ctxUsername returns the username injected by the BasicAuth middleware.
// An empty value means the route was mounted without the middleware.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get(ContextUsername).(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Cannot authenticate user")
	}
	return username, nil
}
