// Package frame -----------------------------
// @file      : frame.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/12 21:10
// -------------------------------------------
package frame

import (
	"strconv"

	"github.com/majimaccho/my-redis/interface/resp"
)

// Simple +OK\r\n
type Simple string

func (Simple) Prefix() byte { return SimplePrefix }

// Error -ERR unknown\r\n
type Error string

func (Error) Prefix() byte { return ErrorPrefix }

// Integer :-42\r\n
type Integer int64

func (Integer) Prefix() byte { return IntegerPrefix }

// Bulk $5\r\nworld\r\n
// 二进制安全，可以包含 \r\n
type Bulk []byte

func (Bulk) Prefix() byte { return BulkPrefix }

// Null $-1\r\n
type Null struct{}

func (Null) Prefix() byte { return BulkPrefix }

// Array *2\r\n$3\r\nget\r\n$5\r\nhello\r\n
// 只用于解析请求，写出去会报错
type Array []resp.Frame

func (Array) Prefix() byte { return ArrayPrefix }

// String 调试和日志用
func String(f resp.Frame) string {
	switch v := f.(type) {
	case Simple:
		return "+" + string(v)
	case Error:
		return "-" + string(v)
	case Integer:
		return ":" + strconv.FormatInt(int64(v), 10)
	case Bulk:
		return strconv.Quote(string(v))
	case Null:
		return "(nil)"
	case Array:
		s := "["
		for i, elem := range v {
			if i > 0 {
				s += " "
			}
			s += String(elem)
		}
		return s + "]"
	case nil:
		return "<nil>"
	default:
		return "<unknown>"
	}
}

// MakeOK SET 的固定回复
func MakeOK() Simple {
	return okFrame
}

// MakeNull 找不到 key 时的回复
func MakeNull() Null {
	return Null{}
}
