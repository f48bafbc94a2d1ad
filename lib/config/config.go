// Package config -----------------------------
// @file      : config.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2023/12/15 20:30
// -------------------------------------------
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// 环境变量优先于配置文件
const (
	EnvBind     = "MYREDIS_BIND"
	EnvPort     = "MYREDIS_PORT"
	EnvLogLevel = "MYREDIS_LOG_LEVEL"
)

// ServerProperties 服务端配置
type ServerProperties struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
	// MaxClients 最多同时服务的连接数，0 表示不限制
	MaxClients int `toml:"maxclients"`
	// Timeout 空闲多少秒后断开客户端，0 表示不断开
	Timeout int `toml:"timeout"`
	// ReadBufferSize 每个连接累积缓冲区的初始大小
	ReadBufferSize int `toml:"read_buffer_size"`
	// MaxFrameSize 单个请求帧的上限
	MaxFrameSize int `toml:"max_frame_size"`
	// Shards 存储分段加锁的段数
	Shards int `toml:"shards"`
	// AdminAddr 管理端口（/metrics /healthz /stats），为空不启动
	AdminAddr string `toml:"admin_addr"`

	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
}

// Properties 全局配置
var Properties = Defaults()

// Defaults 没有配置文件时就是单机默认配置
func Defaults() *ServerProperties {
	return &ServerProperties{
		Bind:           "0.0.0.0",
		Port:           6379,
		MaxClients:     10000,
		ReadBufferSize: 4 * 1024,
		MaxFrameSize:   512*1024*1024 + 64*1024,
		Shards:         16,
		LogLevel:       "info",
	}
}

// Address IP:PORT
func (p *ServerProperties) Address() string {
	return fmt.Sprintf("%s:%d", p.Bind, p.Port)
}

// IdleTimeout Timeout 转成 time.Duration
func (p *ServerProperties) IdleTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// Load 解析配置文件，文件里没写的项保留默认值
// 返回文件里不认识的配置项
func Load(path string) (*ServerProperties, []string, error) {
	props := Defaults()
	meta, err := toml.DecodeFile(path, props)
	if err != nil {
		return nil, nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	applyEnvOverrides(props)
	if err := Validate(props); err != nil {
		return nil, unknown, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return props, unknown, nil
}

// SetupConfig 打开配置文件并解析到 Properties
func SetupConfig(path string) ([]string, error) {
	props, unknown, err := Load(path)
	if err != nil {
		return unknown, err
	}
	Properties = props
	return unknown, nil
}

// SetupDefaults 没有配置文件的时候使用
func SetupDefaults() error {
	props := Defaults()
	applyEnvOverrides(props)
	if err := Validate(props); err != nil {
		return err
	}
	Properties = props
	return nil
}

func applyEnvOverrides(p *ServerProperties) {
	if v := strings.TrimSpace(os.Getenv(EnvBind)); v != "" {
		p.Bind = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			p.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		p.LogLevel = v
	}
}

func Validate(p *ServerProperties) error {
	if strings.TrimSpace(p.Bind) == "" {
		return fmt.Errorf("bind is required")
	}
	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("port out of range: %d", p.Port)
	}
	if p.MaxClients < 0 {
		return fmt.Errorf("maxclients must not be negative")
	}
	if p.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if p.ReadBufferSize <= 0 {
		return fmt.Errorf("read_buffer_size must be positive")
	}
	if p.MaxFrameSize < p.ReadBufferSize {
		return fmt.Errorf("max_frame_size (%d) smaller than read_buffer_size (%d)", p.MaxFrameSize, p.ReadBufferSize)
	}
	if p.Shards <= 0 {
		return fmt.Errorf("shards must be positive")
	}
	return nil
}
