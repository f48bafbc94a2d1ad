// Package client -----------------------------
// @file      : client.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/17 14:10
// -------------------------------------------
package client

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/lib/logger"
	"github.com/majimaccho/my-redis/resp/connection"
	"github.com/majimaccho/my-redis/resp/frame"
)

const (
	maxWait    = 3 * time.Second
	maxRetries = 3
)

var (
	ErrClientClosed = errors.New("client closed")
	// ErrUnexpectedReply 服务端回复的类型和命令对不上
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// ServerError 服务端回复的错误帧
type ServerError struct {
	Msg string
}

func (e *ServerError) Error() string {
	return e.Msg
}

// Client 同一时间只有一个请求在路上：写一个命令，读一个回复
type Client struct {
	addr string
	opts connection.Options

	mu     sync.Mutex
	conn   *connection.Connection
	closed bool
}

// MakeClient 连接到 addr
func MakeClient(addr string) (*Client, error) {
	opts := connection.DefaultOptions()
	opts.IdleTimeout = maxWait
	client := &Client{
		addr: addr,
		opts: opts,
	}
	conn, err := client.dial()
	if err != nil {
		return nil, err
	}
	client.conn = conn
	return client, nil
}

func (client *Client) dial() (*connection.Connection, error) {
	conn, err := net.DialTimeout("tcp", client.addr, maxWait)
	if err != nil {
		return nil, err
	}
	return connection.NewConn(conn, client.opts), nil
}

// 连接断开后重新连接，最多重试三次
func (client *Client) reconnect() error {
	logger.Info("reconnect with: " + client.addr)
	if client.conn != nil {
		_ = client.conn.Close()
		client.conn = nil
	}
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		conn, err := client.dial()
		if err == nil {
			client.conn = conn
			return nil
		}
		lastErr = err
		logger.Warn("reconnect error: " + err.Error())
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	return fmt.Errorf("reconnect %s: %w", client.addr, lastErr)
}

// Send 发送一条命令并等待回复
// 服务端的错误回复作为 frame.Error 返回，error 只表示传输层的问题
func (client *Client) Send(args [][]byte) (resp.Frame, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.closed {
		return nil, ErrClientClosed
	}

	// 一个字节都没发出去时命令肯定没有到达服务端，可以换一个连接重试
	// 发出去一部分就不能重试，否则 SET 可能被执行两次
	var err error
	for i := 0; i < maxRetries; i++ {
		if client.conn == nil {
			if err = client.reconnect(); err != nil {
				return nil, err
			}
		}
		if err = client.conn.WriteCommand(args); err == nil {
			break
		}
		_ = client.conn.Close()
		client.conn = nil
		if !nothingSent(err) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	f, err := client.conn.ReadFrame()
	if err == nil && f == nil {
		err = &connection.ConnectionError{Op: "read", Err: connection.ErrConnectionReset}
	}
	if err != nil {
		// 回复读了一半，这个连接上的字节流已经对不齐了
		_ = client.conn.Close()
		client.conn = nil
		return nil, err
	}
	return f, nil
}

// Get 返回 key 对应的值，不存在时 ok 为 false
func (client *Client) Get(key string) ([]byte, bool, error) {
	f, err := client.Send([][]byte{[]byte("GET"), []byte(key)})
	if err != nil {
		return nil, false, err
	}
	return getReply(f)
}

// Set 保存 key 和 value
func (client *Client) Set(key string, value []byte) error {
	f, err := client.Send([][]byte{[]byte("SET"), []byte(key), value})
	if err != nil {
		return err
	}
	return setReply(f)
}

// Close 关闭连接，之后的 Send 都会返回 ErrClientClosed
func (client *Client) Close() error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.closed {
		return nil
	}
	client.closed = true
	if client.conn == nil {
		return nil
	}
	err := client.conn.Close()
	client.conn = nil
	return err
}

func nothingSent(err error) bool {
	var connErr *connection.ConnectionError
	return errors.As(err, &connErr) && connErr.Written == 0
}

func getReply(f resp.Frame) ([]byte, bool, error) {
	switch v := f.(type) {
	case frame.Bulk:
		return []byte(v), true, nil
	case frame.Null:
		return nil, false, nil
	case frame.Error:
		return nil, false, &ServerError{Msg: string(v)}
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnexpectedReply, frame.String(f))
	}
}

func setReply(f resp.Frame) error {
	switch v := f.(type) {
	case frame.Simple:
		if v == "OK" {
			return nil
		}
	case frame.Error:
		return &ServerError{Msg: string(v)}
	}
	return fmt.Errorf("%w: %s", ErrUnexpectedReply, frame.String(f))
}
