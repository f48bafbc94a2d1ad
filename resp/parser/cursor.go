// Package parser -----------------------------
// @file      : cursor.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/13 20:12
// -------------------------------------------
package parser

import (
	"bytes"
	"strconv"

	"github.com/majimaccho/my-redis/resp/frame"
)

var crlf = []byte(frame.CRLF)

// Cursor 只读的游标，只移动位置，不修改底层的字节
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Position 当前读到的位置
func (c *Cursor) Position() int {
	return c.pos
}

func (c *Cursor) SetPosition(pos int) {
	c.pos = pos
}

// Remaining 还剩多少字节没有读
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// GetU8 读一个字节并前进
func (c *Cursor) GetU8() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, frame.ErrIncomplete
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// PeekU8 读一个字节但不前进
func (c *Cursor) PeekU8() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, frame.ErrIncomplete
	}
	return c.buf[c.pos], nil
}

// Skip 跳过 n 个字节
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return frame.MakeProtocolError("negative skip")
	}
	if c.Remaining() < n {
		return frame.ErrIncomplete
	}
	c.pos += n
	return nil
}

// GetLine 读到 \r\n 为止，返回 \r\n 之前的内容并跳过 \r\n
// 返回的切片指向底层缓冲区，调用方要复制之后才能保存
func (c *Cursor) GetLine() ([]byte, error) {
	start := c.pos
	// 最多只在 MaxLineLength + 2 的范围内找 \r\n
	window := c.buf[start:]
	tooLong := len(window) >= frame.MaxLineLength+2
	if tooLong {
		window = window[:frame.MaxLineLength+2]
	}
	idx := bytes.Index(window, crlf)
	if idx < 0 {
		if tooLong {
			return nil, frame.MakeProtocolError("line too long")
		}
		return nil, frame.ErrIncomplete
	}
	c.pos = start + idx + 2
	return c.buf[start : start+idx], nil
}

// GetDecimal 把一行解析成有符号十进制整数
func (c *Cursor) GetDecimal() (int64, error) {
	line, err := c.GetLine()
	if err != nil {
		return 0, err
	}
	if len(line) == 0 {
		return 0, frame.MakeProtocolError("invalid frame format: empty integer")
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, frame.MakeProtocolError("invalid frame format: " + strconv.Quote(string(line)))
	}
	return n, nil
}

// expectCRLF Bulk 内容后面必须紧跟 \r\n
func (c *Cursor) expectCRLF() error {
	for _, want := range crlf {
		b, err := c.GetU8()
		if err != nil {
			return err
		}
		if b != want {
			return frame.MakeProtocolError("bulk string not terminated by CRLF")
		}
	}
	return nil
}
