package router

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"realestate/internal/config"
	apperrors "realestate/internal/errors"
	"realestate/internal/handler"
	"realestate/internal/logging"
	"realestate/internal/metrics"
	"realestate/internal/model"
	"realestate/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Property *handler.PropertyHandler
	User     *handler.UserHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	registry *prometheus.Registry,
	authService service.AuthService,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("1M"))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", h.Health.Healthz)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")
	authenticated := echojwt.WithConfig(echojwt.Config{
		ContextKey:     handler.UserContextKey,
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: parseToken(authService),
		ErrorHandler:   authError,
	})
	admin := []echo.MiddlewareFunc{authenticated, requireAdmin}

	authGroup := api.Group("/auth")
	authGroup.POST("/token", h.Auth.Login, loginRateLimiter(cfg.LoginRateLimit))
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/accept-invitation/:token", h.Auth.AcceptInvitation)
	authGroup.GET("/me", h.Auth.Me, authenticated)
	authGroup.PUT("/update-profile", h.Auth.UpdateProfile, authenticated)
	authGroup.POST("/logout", h.Auth.Logout, authenticated)
	authGroup.POST("/invite", h.Auth.Invite, admin...)
	authGroup.GET("/invitations", h.Auth.ListInvitations, admin...)

	properties := api.Group("/properties")
	properties.GET("", h.Property.ListProperties)
	properties.GET("/search", h.Property.SearchProperties)
	properties.GET("/:id", h.Property.GetProperty)
	properties.POST("", h.Property.CreateProperty, admin...)
	properties.PUT("/:id", h.Property.UpdateProperty, admin...)
	properties.DELETE("/:id", h.Property.DeleteProperty, admin...)

	users := api.Group("/users", admin...)
	users.GET("", h.User.ListUsers)
	users.PUT("/role", h.User.ChangeRole)
}

// parseToken resolves the bearer token to the current user.
func parseToken(authService service.AuthService) func(c echo.Context, auth string) (interface{}, error) {
	return func(c echo.Context, auth string) (interface{}, error) {
		return authService.ResolveCurrentUser(c.Request().Context(), auth)
	}
}

func authError(c echo.Context, err error) error {
	if errors.Is(err, apperrors.ErrBackendUnavailable) {
		return handler.RespondError(c, err)
	}
	return handler.RespondError(c, apperrors.ErrUnauthorized)
}

// requireAdmin rejects authenticated users whose role is not admin.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get(handler.UserContextKey).(*model.User)
		if !ok || user == nil {
			return handler.RespondError(c, apperrors.ErrUnauthorized)
		}
		if user.Role != model.RoleAdmin {
			return handler.RespondError(c, apperrors.ErrForbidden)
		}
		return next(c)
	}
}

func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many login attempts",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// requestLogger attaches a request-scoped logger to the context and logs each request.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	attach := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqLogger := logger.With(
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Path(),
			)
			ctx := logging.WithContext(c.Request().Context(), reqLogger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}

	log := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"req_id", v.RequestID,
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return log(attach(next))
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
