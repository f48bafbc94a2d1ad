// Package command -----------------------------
// @file      : command.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/12 18:28
// -------------------------------------------
package command

import (
	"strings"

	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/resp/frame"
)

// Command 从一个请求帧解析出来的指令，执行完就丢掉
type Command interface {
	Name() string
}

// Get GET key
type Get struct {
	Key string
}

func (Get) Name() string { return "get" }

// Set SET key value
type Set struct {
	Key   string
	Value []byte
}

func (Set) Name() string { return "set" }

// parseFunc 参数已经去掉了指令名
type parseFunc func(args [][]byte) Command

// 支持的指令表
var cmdTable = make(map[string]*command)

type command struct {
	parse parseFunc
	// 参数的数量，包含指令名本身
	// 负数表示至少 -arity 个
	arity int
}

func registerCommand(name string, parse parseFunc, arity int) {
	name = strings.ToLower(name)
	cmdTable[name] = &command{
		parse: parse,
		arity: arity,
	}
}

// FromFrame 把请求帧转换成指令
// 请求必须是一个数组，元素是字符串，第 0 个是指令名（不区分大小写）
func FromFrame(f resp.Frame) (Command, error) {
	args, err := toCmdLine(f)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(string(args[0]))
	cmd, ok := cmdTable[name]
	if !ok {
		return nil, &frame.UnknownCommandError{Name: string(args[0])}
	}
	if !validateArity(cmd.arity, args) {
		return nil, &frame.ArgNumError{Cmd: name}
	}
	return cmd.parse(args[1:]), nil
}

// SET K V → arity = 3
func validateArity(arity int, cmdArgs [][]byte) bool {
	argNum := len(cmdArgs)
	if arity > 0 {
		return argNum == arity
	}
	return argNum >= -arity
}

// toCmdLine Array(Bulk...) → [][]byte
// 帧本身是完整的，所以形状不对也不用断开连接
func toCmdLine(f resp.Frame) ([][]byte, error) {
	arr, ok := f.(frame.Array)
	if !ok {
		return nil, &frame.ProtocolError{Msg: "expected array, got " + frame.String(f), Recoverable: true}
	}
	if len(arr) == 0 {
		return nil, &frame.ProtocolError{Msg: "empty command", Recoverable: true}
	}
	args := make([][]byte, len(arr))
	for i, elem := range arr {
		switch v := elem.(type) {
		case frame.Bulk:
			args[i] = v
		case frame.Simple:
			args[i] = []byte(v)
		default:
			return nil, &frame.ProtocolError{Msg: "expected bulk string, got " + frame.String(elem), Recoverable: true}
		}
	}
	return args, nil
}
