// Package tcp -----------------------------
// @file      : server.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/15 19:34
// -------------------------------------------
package tcp

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/majimaccho/my-redis/interface/tcp"
	"github.com/majimaccho/my-redis/lib/logger"
)

// Config tcp连接配置信息
type Config struct {
	Address string
}

// ListenAndServeWithSignal 监听地址，收到退出信号后关闭
func ListenAndServeWithSignal(cfg *Config, handler tcp.Handler) error {
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return err
	}
	closeChan := make(chan struct{})
	done := make(chan struct{})
	defer close(done)
	// 获取操作系统给程序发送的信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)
	// 转发信号到自定义的 closeChan，服务结束后退出
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal " + sig.String())
			close(closeChan)
		case <-done:
		}
	}()

	logger.Info(fmt.Sprintf("start listen %s", listener.Addr()))
	ListenAndServe(listener, handler, closeChan)
	return nil
}

// ListenAndServe 一个协程处理一个连接，连接之间互不阻塞
func ListenAndServe(listener net.Listener, handler tcp.Handler, closeChan <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// 监听应用程序被关闭的系统信号
	go func() {
		select {
		case <-closeChan:
			logger.Info("shutting down")
		case <-ctx.Done():
		}
		cancel()
		_ = listener.Close()
		_ = handler.Close()
	}()
	var waitDone sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("accept failed: " + err.Error())
			}
			break
		}
		logger.L().Debug().Str("remote", conn.RemoteAddr().String()).Msg("accepted link")
		waitDone.Add(1)
		go func() {
			// 防止连接出现 panic 导致没 Done()，也不让一个连接的 panic 影响整个进程
			defer func() {
				if err := recover(); err != nil {
					logger.Error(fmt.Sprintf("connection panic: %v\n%s", err, debug.Stack()))
					_ = conn.Close()
				}
				waitDone.Done()
			}()
			handler.Handle(ctx, conn)
		}()
	}
	// 跳出循环后关闭所有连接，并等待已存在的连接结束
	cancel()
	waitDone.Wait()
}
