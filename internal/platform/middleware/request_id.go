// Package middleware holds the Echo middleware shared by every page:
// request identifiers, request logging, panic recovery, and security
// headers.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader is the header carrying the request identifier.
const RequestIDHeader = "X-Request-ID"

// ContextKeyRequestID is the echo context key the request id is stored under.
const ContextKeyRequestID = "request_id"

// RequestID returns middleware that assigns each request an identifier. An
// inbound X-Request-ID is preserved so upstream proxies can correlate logs;
// otherwise a new UUID is generated. The id is stored on the context and
// echoed back in the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.New().String()
			}
			c.Set(ContextKeyRequestID, rid)
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
