// Package main -----------------------------
// @file      : main.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/15 20:23
// -------------------------------------------
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/majimaccho/my-redis/admin"
	"github.com/majimaccho/my-redis/database"
	"github.com/majimaccho/my-redis/lib/config"
	"github.com/majimaccho/my-redis/lib/logger"
	"github.com/majimaccho/my-redis/lib/metrics"
	"github.com/majimaccho/my-redis/resp/connection"
	"github.com/majimaccho/my-redis/resp/handler"
	"github.com/majimaccho/my-redis/tcp"
)

const configFile string = "redis.toml"

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func main() {
	// 配置
	if fileExists(configFile) {
		unknown, err := config.SetupConfig(configFile)
		if err != nil {
			logger.Fatal(err)
		}
		if len(unknown) > 0 {
			logger.Warn("unknown config keys: " + strings.Join(unknown, ", "))
		}
	} else if err := config.SetupDefaults(); err != nil {
		// 没有配置文件就是单机默认配置
		logger.Fatal(err)
	}
	props := config.Properties

	// 日志
	if err := logger.Setup(&logger.Settings{
		Path:       props.LogPath,
		Name:       "my-redis",
		Ext:        "log",
		TimeFormat: "2006-01-02",
		Level:      props.LogLevel,
	}); err != nil {
		logger.Fatal(err)
	}
	metrics.Register()

	db := database.NewStandaloneDatabase(props.Shards)
	h := handler.MakeHandler(db, handler.Options{
		Conn: connection.Options{
			ReadBufferSize: props.ReadBufferSize,
			MaxFrameSize:   props.MaxFrameSize,
			IdleTimeout:    props.IdleTimeout(),
		},
		MaxClients: props.MaxClients,
	})

	var adminServer *admin.Server
	if props.AdminAddr != "" {
		adminServer = admin.NewServer(props.AdminAddr, h)
		go func() {
			if err := adminServer.ListenAndServe(); err != nil {
				logger.Error("admin server: " + err.Error())
			}
		}()
	}

	logger.Info(props.Address())
	err := tcp.ListenAndServeWithSignal(&tcp.Config{Address: props.Address()}, h)
	if adminServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = adminServer.Shutdown(ctx)
		cancel()
	}
	if err != nil {
		logger.Fatal(err)
	}
}
