// Package api wires the HTTP surface of the messaging service.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/msgbox/messaging-service/docs"
	"github.com/msgbox/messaging-service/internal/api/handler"
	"github.com/msgbox/messaging-service/internal/api/middleware"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

// Dependencies holds everything NewRouter needs. Registry may be nil, in
// which case the default Prometheus registry is used.
type Dependencies struct {
	AuthService    ports.AuthService
	MessageService ports.MessageService
	HealthChecks   map[string]handler.PingFunc
	Registry       *prometheus.Registry
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "messaging",
		Registerer: registerer,
	}))

	// --- Messages (Basic auth) ---
	messageHandler := handler.NewMessageHandler(deps.MessageService)
	messages := e.Group("/messages", middleware.BasicAuth(deps.AuthService))
	messages.GET("/all", messageHandler.List)
	messages.GET("/filter/:status", messageHandler.Filter)
	messages.POST("/new", messageHandler.Send)
	messages.POST("/ack/received/:message_id", messageHandler.Acknowledge)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("user", stringValue(c.Get("username"))).
				Msg("request")
			return nil
		},
	})
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
