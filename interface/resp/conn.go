// Package resp -----------------------------
// @file      : conn.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/17 22:02
// -------------------------------------------
package resp

import "net"

// Connection 代表协议层的一个客户端的连接
type Connection interface {
	WriteFrame(f Frame) error
	RemoteAddr() net.Addr
}
