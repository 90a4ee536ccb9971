package httpx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/groupclient/internal/ports"
)

// RequestLogger — журнал запросов админки. Пути из skip не логируются
// (пробы и скрейп метрик), 5xx пишется предупреждением.
func RequestLogger(log ports.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if _, ok := skipped[path]; ok {
			return
		}

		// request_id и trace/span добавит сам логгер из контекста
		logf := log.Infof
		if c.Writer.Status() >= http.StatusInternalServerError {
			logf = log.Warnf
		}
		logf(c.Request.Context(), "request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method, path, c.Writer.Status(), c.ClientIP(), time.Since(start), c.Writer.Size())
	}
}
