package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/groupclient/internal/domain"
	"github.com/Gunvolt24/groupclient/internal/ports"
	"github.com/Gunvolt24/groupclient/pkg/httpx"
)

const (
	defaultPausedLimit = 50
	maxPausedLimit     = 500
)

// Handler — административные ручки клиента группы.
type Handler struct {
	status ports.StatusReporter
	log    ports.Logger
}

func NewHandler(status ports.StatusReporter, log ports.Logger) *Handler {
	return &Handler{status: status, log: log}
}

// NewRouter — gin-роутер админки. otelServiceName != "" включает otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log, "/ping", "/metrics"))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", h.health)
	r.GET("/status", h.getStatus)

	return r
}

// health — 200, пока у клиента есть живое соединение, иначе 503.
func (h *Handler) health(c *gin.Context) {
	st := h.status.Status()
	if !st.Connected {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "disconnected", "group": st.Group})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "group": st.Group})
}

// getStatus — снимок клиента; список пауз постранично (limit/offset).
func (h *Handler) getStatus(c *gin.Context) {
	st := h.status.Status()
	total := len(st.Paused)

	lo, hi := httpx.ParsePage(c, defaultPausedLimit, maxPausedLimit).Bounds(total)
	st.Paused = append([]domain.PausedPartition{}, st.Paused[lo:hi]...)

	c.Header("X-Total-Paused", strconv.Itoa(total))
	c.JSON(http.StatusOK, st)
}
