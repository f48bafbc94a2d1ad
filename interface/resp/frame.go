// Package resp -----------------------------
// @file      : frame.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/12 21:02
// -------------------------------------------
package resp

// Frame 一个完整的 RESP 值
// 具体类型在 resp/frame 里面
type Frame interface {
	// Prefix 线上格式的首字节 + - : $ *
	Prefix() byte
}
