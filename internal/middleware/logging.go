package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes one key=value line per HTTP request. The route pattern is
// logged next to the concrete path so slug pages can be grouped.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			log.Printf("request_id=%s method=%s path=%s route=%s status=%d bytes=%d ip=%s latency=%s",
				RequestIDFromContext(c), req.Method, req.URL.Path, c.Path(), res.Status, res.Size, c.RealIP(), latency)

			return err
		}
	}
}
