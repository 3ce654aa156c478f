package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs each request and reports it to the observer, labelled
// by route template so /api/funds/:code stays one series.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		if s.observer != nil {
			s.observer.ObserveHTTP(c.Request.Method, route, status, elapsed)
		}

		ev := s.log.Debug()
		if status >= 500 {
			ev = s.log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")
	}
}
