// Package connection -----------------------------
// @file      : errors.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/13 22:40
// -------------------------------------------
package connection

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// ErrConnectionReset 对端在发送一个帧的途中关闭了连接
var ErrConnectionReset = errors.New("connection reset by peer")

// ConnectionError 传输层的错误，连接已经不能再用了
type ConnectionError struct {
	Op  string
	Err error
	// Written 出错之前这次写操作已经发到 socket 的字节数
	Written int64
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// IsClosed 连接是被关掉的（本端或者对端），不需要当作异常记录
func IsClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}

// IsTimeout 读写超时，比如客户端空闲超过 IdleTimeout
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
