package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/logger"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
)

const (
	headerRequestID = "X-Request-ID"
	userIDKey       = "user_id"
	tokenQueryParam = "access_token"
)

// Claims are the bearer token claims. UserID identifies the list owner.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(key []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user_id")
	}
	return claims, nil
}

// RequestID tags each request with an id and a request-scoped logger.
func RequestID(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(headerRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(headerRequestID, requestID)
			}
			c.Response().Header().Set(headerRequestID, requestID)

			log := base.With(zap.String("request_id", requestID))
			c.Set(logger.EchoKey, log)
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), log)))

			return next(c)
		}
	}
}

// Metrics records request counts and latency by route.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			observability.RecordHTTPRequest(
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
				time.Since(start).Seconds(),
			)
			return err
		}
	}
}

// Auth requires a valid bearer token and stores its user id on the
// context. Websocket clients may pass the token as ?access_token=.
func Auth(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			tokenString, err := bearerToken(c)
			if err != nil {
				log.Warn("rejected request", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			claims, err := ParseToken(key, tokenString)
			if err != nil {
				log.Warn("invalid or expired token", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(userIDKey, claims.UserID)
			c.Set(logger.EchoKey, log.With(zap.String("user_id", claims.UserID)))
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		if q := c.QueryParam(tokenQueryParam); q != "" {
			return q, nil
		}
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// userID returns the authenticated user set by Auth.
func userID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
