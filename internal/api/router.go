package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shelfkeep/library-api/docs"
	"github.com/shelfkeep/library-api/internal/api/handler"
	"github.com/shelfkeep/library-api/internal/api/middleware"
	"github.com/shelfkeep/library-api/internal/core/domain"
	"github.com/shelfkeep/library-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	JWTSecret string

	AuthService     ports.AuthService
	BookService     ports.BookService
	CheckoutService ports.CheckoutService
	UserService     ports.UserService

	// HealthChecks are probed by GET /health/ready, keyed by dependency name.
	HealthChecks map[string]handler.Pinger

	// Registry receives the HTTP metrics and backs GET /metrics. Nil means
	// the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, "Idempotency-Key"},
		ExposeHeaders: []string{"X-Total-Count", "X-Limit", "X-Offset"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "library",
		Registerer: registerer,
		Skipper:    skipOperational,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	authMW := middleware.Auth(d.JWTSecret)

	// --- Books ---
	books := handler.NewBookHandler(d.BookService)
	checkouts := handler.NewCheckoutHandler(d.CheckoutService)

	b := e.Group("/books", authMW)
	b.POST("", books.Create)
	b.GET("", books.List)
	b.GET("/checkouts", checkouts.ListOpen)
	b.GET("/:id", books.Get)
	b.PUT("/:id", books.Update)
	b.DELETE("/:id", books.Delete)
	b.POST("/:id/checkouts", checkouts.Checkout)
	b.PUT("/:id/checkouts/:checkout_id/returned", checkouts.Return)
	b.GET("/:id/checkout-history", checkouts.History)

	// --- Users ---
	users := handler.NewUserHandler(d.UserService)
	u := e.Group("/users", authMW)
	u.GET("/me", users.Me)
	u.GET("", users.List, middleware.RBAC(domain.RoleAdmin))

	return e
}

func skipOperational(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Float64("latency_ms", float64(v.Latency.Microseconds())/1000).
				Msg("request")
			return nil
		},
	})
}
