// Package logger -----------------------------
// @file      : logger.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/15 20:05
// -------------------------------------------
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Settings 日志的配置
// Path 为空时只输出到标准输出
type Settings struct {
	Path       string
	Name       string
	Ext        string
	TimeFormat string
	Level      string
	NoColor    bool
}

var (
	mu      sync.RWMutex
	logger  = newConsole(os.Stdout, false).Level(zerolog.InfoLevel)
	logFile *os.File
)

// 经过 Info 这些包装函数之后，调用者要多跳过一层栈
const callerSkip = 1

func newConsole(out io.Writer, noColor bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// Setup 初始化日志文件以及日志对象
func Setup(settings *Settings) error {
	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    settings.NoColor,
	}
	var file *os.File
	if settings.Path != "" {
		// 生成日志文件的名称 redis-2026-10-15.log
		fileName := fmt.Sprintf("%s-%s.%s",
			settings.Name,
			time.Now().Format(settings.TimeFormat),
			strings.TrimPrefix(settings.Ext, "."))
		f, err := mustOpen(fileName, settings.Path)
		if err != nil {
			return err
		}
		file = f
		// 文件里写 JSON，终端里写可读格式
		out = zerolog.MultiLevelWriter(out, f)
	}

	level := ParseLevel(settings.Level)

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	logger = zerolog.New(out).With().Timestamp().Logger().Level(level)
	return nil
}

// SetOutput 测试用，把日志写到 w
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).Level(level)
}

// ParseLevel 不认识的级别按 info 处理
func ParseLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// L 返回当前的 zerolog.Logger，需要结构化字段时使用
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debug(v ...interface{}) {
	L().Debug().CallerSkipFrame(callerSkip).Caller().Msg(fmt.Sprint(v...))
}

func Info(v ...interface{}) {
	L().Info().CallerSkipFrame(callerSkip).Caller().Msg(fmt.Sprint(v...))
}

func Warn(v ...interface{}) {
	L().Warn().CallerSkipFrame(callerSkip).Caller().Msg(fmt.Sprint(v...))
}

func Error(v ...interface{}) {
	L().Error().CallerSkipFrame(callerSkip).Caller().Msg(fmt.Sprint(v...))
}

// Fatal 打印日志并退出
func Fatal(v ...interface{}) {
	L().Fatal().CallerSkipFrame(callerSkip).Caller().Msg(fmt.Sprint(v...))
}
