package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/arthalon/library-catalog/pkg/auth"
	"github.com/arthalon/library-catalog/pkg/logger"
)

const bearer = "Bearer "

// SessionAuth authenticates the request from the Authorization header or the
// session cookie and stores the caller identity in the request context.
// Requests without a valid session are redirected to loginURL with the
// originally requested path preserved in the "next" query parameter.
func SessionAuth(loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := tokenFromRequest(c.Request())
			if tokenStr == "" {
				return RedirectToLogin(c, loginURL)
			}
			claims, err := auth.ParseToken(tokenStr)
			if err != nil {
				return RedirectToLogin(c, loginURL)
			}

			req := c.Request()
			ctx := auth.SetAuthContext(req.Context(), claims.Profile.Username, claims.Profile.Role)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// RedirectToLogin sends the caller to loginURL carrying the original
// request path as a return target.
func RedirectToLogin(c echo.Context, loginURL string) error {
	next := url.QueryEscape(c.Request().RequestURI)
	return c.Redirect(http.StatusFound, loginURL+"?next="+next)
}

func tokenFromRequest(r *http.Request) string {
	authorization := r.Header.Get(auth.AuthorizationHeader)
	if strings.HasPrefix(authorization, bearer) {
		return strings.TrimPrefix(authorization, bearer)
	}
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig() middleware.RequestLoggerConfig {
	cfg := logger.Log{LogLevel: zapcore.DebugLevel, Sink: ""}
	log := logger.NewLogger(cfg, "echo")
	c := middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
	return c
}
