// Package connection -----------------------------
// @file      : conn.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/3 11:04
// -------------------------------------------
package connection

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/lib/sync/wait"
	"github.com/majimaccho/my-redis/resp/frame"
	"github.com/majimaccho/my-redis/resp/parser"
)

const (
	DefaultReadBufferSize = 4 * 1024
	DefaultMaxFrameSize   = frame.MaxBulkLength + frame.MaxLineLength
	// 编码用的临时缓冲区超过这个大小就不再复用
	maxScratchSize = 64 * 1024
)

// Options 连接的缓冲和超时设置
type Options struct {
	// ReadBufferSize 累积缓冲区的初始大小
	ReadBufferSize int
	// MaxFrameSize 单个帧最多可以占用的缓冲区大小
	MaxFrameSize int
	// IdleTimeout 每次读 socket 之前设置的超时，0 表示不超时
	IdleTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		ReadBufferSize: DefaultReadBufferSize,
		MaxFrameSize:   DefaultMaxFrameSize,
	}
}

// Connection 协议层的一个连接
// 持有一个 socket 和一个累积缓冲区，buffer[start:end] 是已经收到但还没有解析的字节
type Connection struct {
	conn   net.Conn
	writer *bufio.Writer
	// sent 记录真正写进 socket 的字节数
	sent countingWriter
	opts   Options

	buffer []byte
	start  int
	end    int

	// 写数据时上锁，关闭前等待正在进行的回复写完
	mu           sync.Mutex
	waitingReply wait.Wait
	scratch      []byte
}

func NewConn(conn net.Conn, opts Options) *Connection {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = DefaultReadBufferSize
	}
	if opts.MaxFrameSize <= 0 {
		opts.MaxFrameSize = DefaultMaxFrameSize
	}
	if opts.MaxFrameSize < opts.ReadBufferSize {
		opts.ReadBufferSize = opts.MaxFrameSize
	}
	c := &Connection{
		conn:   conn,
		opts:   opts,
		buffer: make([]byte, opts.ReadBufferSize),
	}
	c.sent.w = conn
	c.writer = bufio.NewWriter(&c.sent)
	return c
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// ReadFrame 读取一个完整的帧
// 对端在帧边界上关闭连接时返回 (nil, nil)
func (c *Connection) ReadFrame() (resp.Frame, error) {
	for {
		f, err := c.parseFrame()
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
		// 数据不够，从 socket 继续读
		if err := c.reserve(); err != nil {
			return nil, err
		}
		n, err := c.fill()
		if n > 0 {
			// 先把读到的数据解析掉，错误会在下一次读的时候再出现
			continue
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			if c.buffered() == 0 {
				return nil, nil
			}
			// 缓冲区里还有半个帧
			return nil, &ConnectionError{Op: "read", Err: ErrConnectionReset}
		}
		return nil, &ConnectionError{Op: "read", Err: err}
	}
}

// parseFrame 缓冲区里数据不够时返回 (nil, nil)
func (c *Connection) parseFrame() (resp.Frame, error) {
	if c.buffered() == 0 {
		return nil, nil
	}
	cur := parser.NewCursor(c.buffer[c.start:c.end])
	if err := parser.Check(cur); err != nil {
		if errors.Is(err, frame.ErrIncomplete) {
			return nil, nil
		}
		return nil, err
	}
	// 帧的长度
	n := cur.Position()
	cur.SetPosition(0)
	f, err := parser.Parse(cur)
	if err != nil {
		return nil, err
	}
	c.advance(n)
	return f, nil
}

func (c *Connection) buffered() int {
	return c.end - c.start
}

// advance 丢弃已经解析的 n 个字节
func (c *Connection) advance(n int) {
	c.start += n
	if c.start < c.end {
		return
	}
	c.start, c.end = 0, 0
	// 收过一个大帧之后把缓冲区缩回初始大小
	if len(c.buffer) > 4*c.opts.ReadBufferSize {
		c.buffer = make([]byte, c.opts.ReadBufferSize)
	}
}

// reserve 保证 buffer[end:] 至少有一个字节的空间
func (c *Connection) reserve() error {
	if c.end < len(c.buffer) {
		return nil
	}
	if c.start > 0 {
		// 把未解析的字节挪到开头
		copy(c.buffer, c.buffer[c.start:c.end])
		c.end -= c.start
		c.start = 0
		return nil
	}
	if len(c.buffer) >= c.opts.MaxFrameSize {
		return frame.ErrFrameTooLarge
	}
	size := 2 * len(c.buffer)
	if size > c.opts.MaxFrameSize {
		size = c.opts.MaxFrameSize
	}
	grown := make([]byte, size)
	copy(grown, c.buffer[:c.end])
	c.buffer = grown
	return nil
}

func (c *Connection) fill() (int, error) {
	if c.opts.IdleTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.IdleTimeout))
	}
	n, err := c.conn.Read(c.buffer[c.end:])
	c.end += n
	return n, err
}

// WriteFrame 编码并写出一个帧，每个帧都会 flush
// 编码失败时一个字节都不会写出去
func (c *Connection) WriteFrame(f resp.Frame) error {
	c.mu.Lock()
	c.waitingReply.Add(1)
	defer func() {
		c.waitingReply.Done()
		c.mu.Unlock()
	}()
	buf, err := frame.Append(c.scratch[:0], f)
	if err != nil {
		return err
	}
	if cap(buf) <= maxScratchSize {
		c.scratch = buf
	}
	return c.write(buf)
}

// WriteCommand 客户端发送一条命令
func (c *Connection) WriteCommand(args [][]byte) error {
	c.mu.Lock()
	c.waitingReply.Add(1)
	defer func() {
		c.waitingReply.Done()
		c.mu.Unlock()
	}()
	return c.write(frame.EncodeCommand(args))
}

func (c *Connection) write(b []byte) error {
	before := c.sent.n
	if _, err := c.writer.Write(b); err != nil {
		return &ConnectionError{Op: "write", Err: err, Written: c.sent.n - before}
	}
	if err := c.writer.Flush(); err != nil {
		return &ConnectionError{Op: "flush", Err: err, Written: c.sent.n - before}
	}
	return nil
}

// Close 等待正在写的回复完成（最多 10 秒）再关闭
func (c *Connection) Close() error {
	c.waitingReply.WaitWithTimeout(10 * time.Second)
	return c.conn.Close()
}
