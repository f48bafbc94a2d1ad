// Package parser -----------------------------
// @file      : parser.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/23 20:43
// -------------------------------------------
package parser

import (
	"bytes"
	"strconv"

	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/resp/frame"
)

// 解析分两遍：
// Check 只检查缓冲区里是否已经有一个完整的帧，不分配内存
// Parse 在 Check 成功之后从同一个位置重新走一遍，真正构造 Frame
// 这样每次 socket 读到一点数据都可以很便宜地重试 Check

// Check 检查从游标当前位置开始是否有一个完整的帧
// 数据不够返回 frame.ErrIncomplete，格式错误返回 *frame.ProtocolError
// 成功时游标停在这个帧的末尾
func Check(c *Cursor) error {
	return check(c, 0)
}

func check(c *Cursor, depth int) error {
	b, err := c.GetU8()
	if err != nil {
		return err
	}
	switch b {
	case frame.SimplePrefix, frame.ErrorPrefix:
		// +OK\r\n -ERR\r\n
		line, err := c.GetLine()
		if err != nil {
			return err
		}
		// 行内不能再出现单独的 \r 或 \n
		if bytes.ContainsAny(line, "\r\n") {
			return frame.MakeProtocolError("invalid line: CR or LF in simple string")
		}
		return nil
	case frame.IntegerPrefix:
		// :5\r\n
		_, err := c.GetDecimal()
		return err
	case frame.BulkPrefix:
		// $5\r\nhello\r\n 或者 $-1\r\n
		n, isNull, err := bulkLen(c)
		if err != nil || isNull {
			return err
		}
		if err := c.Skip(n); err != nil {
			return err
		}
		return c.expectCRLF()
	case frame.ArrayPrefix:
		// *2\r\n$3\r\nget\r\n$5\r\nhello\r\n
		if depth >= frame.MaxArrayDepth {
			return frame.MakeProtocolError("array nested too deep")
		}
		n, err := arrayLen(c)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := check(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return frame.MakeProtocolError("invalid frame type byte " + strconv.QuoteRune(rune(b)))
	}
}

// Parse 解析一个帧并移动游标
// 只能在同一位置 Check 成功之后调用
func Parse(c *Cursor) (resp.Frame, error) {
	b, err := c.GetU8()
	if err != nil {
		return nil, err
	}
	switch b {
	case frame.SimplePrefix:
		line, err := c.GetLine()
		if err != nil {
			return nil, err
		}
		return frame.Simple(line), nil
	case frame.ErrorPrefix:
		line, err := c.GetLine()
		if err != nil {
			return nil, err
		}
		return frame.Error(line), nil
	case frame.IntegerPrefix:
		n, err := c.GetDecimal()
		if err != nil {
			return nil, err
		}
		return frame.Integer(n), nil
	case frame.BulkPrefix:
		n, isNull, err := bulkLen(c)
		if err != nil {
			return nil, err
		}
		if isNull {
			return frame.Null{}, nil
		}
		start := c.Position()
		if err := c.Skip(n); err != nil {
			return nil, err
		}
		// 复制一份，不能引用连接的累积缓冲区
		data := make([]byte, n)
		copy(data, c.buf[start:start+n])
		if err := c.expectCRLF(); err != nil {
			return nil, err
		}
		return frame.Bulk(data), nil
	case frame.ArrayPrefix:
		n, err := arrayLen(c)
		if err != nil {
			return nil, err
		}
		arr := make(frame.Array, 0, n)
		for i := 0; i < n; i++ {
			elem, err := Parse(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	default:
		return nil, frame.MakeProtocolError("invalid frame type byte " + strconv.QuoteRune(rune(b)))
	}
}

// ParseOne 从 data 中解析出第一个帧
func ParseOne(data []byte) (resp.Frame, error) {
	c := NewCursor(data)
	if err := Check(c); err != nil {
		return nil, err
	}
	c.SetPosition(0)
	return Parse(c)
}

// bulkLen 解析 $ 后面的长度，只有字面量 -1 表示 Null
func bulkLen(c *Cursor) (int, bool, error) {
	b, err := c.PeekU8()
	if err != nil {
		return 0, false, err
	}
	if b == '-' {
		line, err := c.GetLine()
		if err != nil {
			return 0, false, err
		}
		if string(line) != "-1" {
			return 0, false, frame.MakeProtocolError("invalid bulk length " + strconv.Quote(string(line)))
		}
		return 0, true, nil
	}
	n, err := c.GetDecimal()
	if err != nil {
		return 0, false, err
	}
	if n > frame.MaxBulkLength {
		return 0, false, frame.MakeProtocolError("invalid bulk length")
	}
	return int(n), false, nil
}

// arrayLen 解析 * 后面的元素个数
func arrayLen(c *Cursor) (int, error) {
	n, err := c.GetDecimal()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, frame.MakeProtocolError("invalid multibulk length")
	}
	if n > frame.MaxBulkLength {
		return 0, frame.MakeProtocolError("invalid multibulk length")
	}
	return int(n), nil
}
