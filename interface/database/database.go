// Package database -----------------------------
// @file      : database.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/3 16:46
// -------------------------------------------
package database

import (
	"github.com/majimaccho/my-redis/command"
	"github.com/majimaccho/my-redis/interface/resp"
)

// Database 业务层，执行一条已经解析好的指令
type Database interface {
	Exec(client resp.Connection, cmd command.Command) resp.Frame
	AfterClientClose(c resp.Connection)
	Close()
	// Len 当前 key 的数量
	Len() int
}
