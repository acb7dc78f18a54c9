package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/pkg/response"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestID(c)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ErrorLogger logs every request and recovers from panics. Query strings
// are logged, headers are not: the Authorization header carries the
// console token.
func ErrorLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				requestEvent(log.Error(), c, start).
					Err(err).
					Bytes("stack", debug.Stack()).
					Msg("panic")
				response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				c.Abort()
				return
			}

			status := c.Writer.Status()
			switch {
			case len(c.Errors) > 0:
				ev := requestEvent(log.Warn(), c, start)
				for _, e := range c.Errors {
					ev = ev.AnErr(fmt.Sprintf("error_%d", e.Type), e.Err)
				}
				ev.Msg("request")
			case status >= http.StatusInternalServerError:
				requestEvent(log.Error(), c, start).Msg("request")
			case status >= http.StatusBadRequest:
				requestEvent(log.Info(), c, start).Msg("request")
			default:
				requestEvent(log.Debug(), c, start).Msg("request")
			}
		}()

		c.Next()
	}
}

func requestEvent(ev *zerolog.Event, c *gin.Context, start time.Time) *zerolog.Event {
	return ev.
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Str("workspace_id", c.GetString(auth.WorkspaceIDKey)).
		Str("request_id", c.GetString("request_id")).
		Dur("latency", time.Since(start))
}

func requestID(c *gin.Context) string {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = c.GetHeader("X-Request-Id")
	}
	return id
}
