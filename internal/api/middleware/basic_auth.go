package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/msgbox/messaging-service/internal/api/metrics"
	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

const basicRealm = `Basic realm="messages"`

// BasicAuth checks HTTP Basic credentials on every request and injects the
// authenticated username into the context. Authenticator errors are
// returned as-is for the HTTP error handler to render.
func BasicAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, password, ok := c.Request().BasicAuth()
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicRealm)
				return echo.NewHTTPError(http.StatusUnauthorized, "Cannot authenticate user")
			}

			user, err := auth.Authenticate(c.Request().Context(), username, password)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrEmptyCredentials):
					metrics.AuthFailuresTotal.WithLabelValues("empty_password").Inc()
				case errors.Is(err, domain.ErrInvalidCredentials):
					metrics.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicRealm)
				default:
					metrics.AuthFailuresTotal.WithLabelValues("internal").Inc()
				}
				return err
			}

			c.Set("username", user.Name)

			return next(c)
		}
	}
}
