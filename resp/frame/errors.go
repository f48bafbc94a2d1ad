// Package frame -----------------------------
// @file      : errors.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/12 22:05
// -------------------------------------------
package frame

import (
	"errors"
	"strings"
)

var (
	// ErrIncomplete 缓冲区里还没有一个完整的帧，需要继续从 socket 读
	// 这不是一个真正的错误，不会返回给连接的调用方
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrArrayEncoding 写路径不支持数组，宁可报错也不要写坏数据流
	ErrArrayEncoding = errors.New("resp: array encoding is not supported")
	// ErrInvalidLine Simple / Error 里出现了 \r 或 \n
	ErrInvalidLine = errors.New("resp: simple string must not contain CR or LF")
	ErrUnknownFrame = errors.New("resp: unknown frame type")

	// ErrFrameTooLarge 单个帧超过了连接允许的缓冲上限
	ErrFrameTooLarge = &ProtocolError{Msg: "frame too large"}
)

// ErrorReply 可以回写给客户端的错误
type ErrorReply interface {
	error
	ToFrame() Error
	// ShouldCloseConnection 回复之后是否还能继续在这个连接上服务
	ShouldCloseConnection() bool
}

// ProtocolError 协议错误
// 帧本身的语法错误会让数据流失去同步，必须断开
// 帧是完整的但请求的形状不对（比如不是数组），可以回复后继续
type ProtocolError struct {
	Msg         string
	Recoverable bool
}

func (r *ProtocolError) Error() string {
	return "protocol error: " + r.Msg
}

func (r *ProtocolError) ToFrame() Error {
	return Error("ERR Protocol error: '" + sanitize(r.Msg) + "'")
}

func (r *ProtocolError) ShouldCloseConnection() bool {
	return !r.Recoverable
}

// MakeProtocolError 帧语法错误
func MakeProtocolError(msg string) *ProtocolError {
	return &ProtocolError{Msg: msg}
}

// ArgNumError 参数个数不对
type ArgNumError struct {
	Cmd string
}

func (r *ArgNumError) Error() string {
	return "ERR wrong number of arguments for '" + r.Cmd + "' command"
}

func (r *ArgNumError) ToFrame() Error {
	return Error("ERR wrong number of arguments for '" + sanitize(r.Cmd) + "' command")
}

func (r *ArgNumError) ShouldCloseConnection() bool {
	return false
}

// UnknownCommandError 不支持的指令
type UnknownCommandError struct {
	Name string
}

func (r *UnknownCommandError) Error() string {
	return "ERR unknown command '" + r.Name + "'"
}

func (r *UnknownCommandError) ToFrame() Error {
	return Error("ERR unknown command '" + sanitize(r.Name) + "'")
}

func (r *UnknownCommandError) ShouldCloseConnection() bool {
	return false
}

// ShouldCloseConnection 判断出错之后是否要关闭连接
// 不认识的错误一律当作需要关闭
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}
	var e ErrorReply
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}
	return true
}

// ToErrorFrame 把错误转成回写给客户端的 Error 帧
func ToErrorFrame(err error) Error {
	var e ErrorReply
	if errors.As(err, &e) {
		return e.ToFrame()
	}
	return Error("ERR " + sanitize(err.Error()))
}

// 错误信息里可能带着客户端发来的原始字节
var lineBreakReplacer = strings.NewReplacer("\r", " ", "\n", " ")

func sanitize(s string) string {
	return lineBreakReplacer.Replace(s)
}
