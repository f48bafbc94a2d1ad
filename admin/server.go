// Package admin -----------------------------
// @file      : server.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/16 10:12
// -------------------------------------------
package admin

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/majimaccho/my-redis/lib/logger"
	"github.com/majimaccho/my-redis/lib/metrics"
)

// StatsSource /stats 需要的两个数
type StatsSource interface {
	ActiveConnections() int
	Keys() int
}

// Server 管理端口：健康检查、prometheus 指标、运行状态
type Server struct {
	router *gin.Engine
	http   *http.Server
}

func NewServer(addr string, stats StatsSource) *Server {
	gin.SetMode(gin.ReleaseMode)
	metrics.Register()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"connections": stats.ActiveConnections(),
			"keys":        stats.Keys(),
		})
	})

	return &Server{
		router: r,
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler 测试时直接用 httptest 调
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve 阻塞直到 listener 关闭或者 Shutdown
func (s *Server) Serve(listener net.Listener) error {
	logger.Info("admin listen " + listener.Addr().String())
	err := s.http.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe 在 Addr 上启动
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.L().Debug().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("admin request")
	}
}
