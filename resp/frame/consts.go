// Package frame -----------------------------
// @file      : consts.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/12 21:14
// -------------------------------------------
package frame

// 首字节
const (
	SimplePrefix  byte = '+'
	ErrorPrefix   byte = '-'
	IntegerPrefix byte = ':'
	BulkPrefix    byte = '$'
	ArrayPrefix   byte = '*'
)

const CRLF = "\r\n"

// 协议层的一些上限
const (
	// MaxLineLength 一行（不含 \r\n）的最大长度，和 redis 的 inline 上限一致
	MaxLineLength = 64 * 1024
	// MaxBulkLength 一个 Bulk 的最大长度 512MB
	MaxBulkLength = 512 * 1024 * 1024
	// MaxArrayDepth 数组的最大嵌套层数
	MaxArrayDepth = 32
)

const okFrame = Simple("OK")

// 固定的编码，不必每次都重新拼接
var (
	okBytes       = []byte("+OK\r\n")
	nullBulkBytes = []byte("$-1\r\n")
)
