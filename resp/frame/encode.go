// Package frame -----------------------------
// @file      : encode.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/12 21:30
// -------------------------------------------
package frame

import (
	"bytes"
	"strconv"

	"github.com/majimaccho/my-redis/interface/resp"
)

// Encode 把一个 Frame 编码成线上的字节
func Encode(f resp.Frame) ([]byte, error) {
	return Append(nil, f)
}

// Append 把 f 的编码追加到 dst 后面
// 出错时返回原来的 dst，不会留下写了一半的内容
func Append(dst []byte, f resp.Frame) ([]byte, error) {
	switch v := f.(type) {
	case Simple:
		if v == okFrame {
			return append(dst, okBytes...), nil
		}
		return appendLine(dst, SimplePrefix, string(v))
	case Error:
		return appendLine(dst, ErrorPrefix, string(v))
	case Integer:
		dst = append(dst, IntegerPrefix)
		dst = strconv.AppendInt(dst, int64(v), 10)
		return append(dst, CRLF...), nil
	case Bulk:
		// "hcjjj" → "$5\r\nhcjjj\r\n"
		dst = append(dst, BulkPrefix)
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, CRLF...)
		dst = append(dst, v...)
		return append(dst, CRLF...), nil
	case Null:
		return append(dst, nullBulkBytes...), nil
	case Array:
		return dst, ErrArrayEncoding
	default:
		return dst, ErrUnknownFrame
	}
}

// + 和 - 的内容里不能有 \r 或 \n
func appendLine(dst []byte, prefix byte, s string) ([]byte, error) {
	if containsLineBreak(s) {
		return dst, ErrInvalidLine
	}
	dst = append(dst, prefix)
	dst = append(dst, s...)
	return append(dst, CRLF...), nil
}

func containsLineBreak(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			return true
		}
	}
	return false
}

// EncodeCommand 把一条命令编码成 bulk 字符串数组
// *3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n
// 客户端发请求用，服务端的写路径不会输出数组
func EncodeCommand(args [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(ArrayPrefix)
	buf.WriteString(strconv.Itoa(len(args)))
	buf.WriteString(CRLF)
	for _, arg := range args {
		buf.WriteByte(BulkPrefix)
		buf.WriteString(strconv.Itoa(len(arg)))
		buf.WriteString(CRLF)
		buf.Write(arg)
		buf.WriteString(CRLF)
	}
	return buf.Bytes()
}
