package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-user-table/internal/core/server"
	"go-user-table/internal/transport/http/handler"
	mdw "go-user-table/internal/transport/http/middleware"
)

type Options struct {
	RequestTimeout time.Duration
	RPS            rate.Limit
	Burst          int
	MaxInFlight    int64
}

func (o *Options) applyDefaults() {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.RPS <= 0 {
		o.RPS = 50
	}
	if o.Burst <= 0 {
		o.Burst = 100
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 300
	}
}

func NewAPIEngine(l *zap.Logger, h *handler.TableHandler, opt Options) *gin.Engine {
	opt.applyDefaults()
	r := server.NewRouter(l, "/health", "/metrics")

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.RateLimitPerIP(opt.RPS, opt.Burst),
		mdw.ConcurrencyLimit(opt.MaxInFlight),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(opt.RequestTimeout),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	mountTable(api, h)
	return r
}

func mountTable(api *gin.RouterGroup, h *handler.TableHandler) {
	t := api.Group("/table")
	t.GET("", h.Get)
	t.PUT("/filters", h.SetFilter)
	t.DELETE("/filters", h.ClearFilters)
	t.DELETE("/filters/date", h.ClearDateFilter)
	t.POST("/sort/:column", h.SortBy)
	t.POST("/page/:page", h.GoToPage)
	t.PUT("/page-size", h.SetPageSize)
	t.POST("/selection/:id", h.ToggleSelectUser)
	t.POST("/selection", h.ToggleSelectAll)

	api.PUT("/edit", h.UpdateDraft)
	api.DELETE("/edit", h.CancelEdit)

	u := api.Group("/users")
	u.DELETE("", h.DeleteSelected)
	u.POST("/:id/edit", h.StartEdit)
	u.POST("/:id/save", h.SaveEdit)
	u.POST("/:id/status", h.ToggleStatus)
	u.DELETE("/:id", h.DeleteUser)
}
