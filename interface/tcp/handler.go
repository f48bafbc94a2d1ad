// Package tcp -----------------------------
// @file      : handler.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/15 19:40
// -------------------------------------------
package tcp

import (
	"context"
	"net"
)

// Handler 一个 TCP 连接上的业务逻辑处理
type Handler interface {
	// Handle 一直处理到连接关闭才返回
	Handle(ctx context.Context, conn net.Conn)
	Close() error
}
