// Package database -----------------------------
// @file      : standalone_database.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/13 21:10
// -------------------------------------------
package database

import (
	"fmt"

	"github.com/majimaccho/my-redis/command"
	"github.com/majimaccho/my-redis/datastruct/dict"
	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/lib/logger"
	"github.com/majimaccho/my-redis/resp/frame"
)

var unknownErrFrame = frame.Error("ERR unknown")

// StandaloneDatabase 单机版的数据库
type StandaloneDatabase struct {
	db *DB
}

// NewStandaloneDatabase shards 是存储分段加锁的段数
func NewStandaloneDatabase(shards int) *StandaloneDatabase {
	return NewStandaloneDatabaseWithDict(dict.MakeConcurrent(shards))
}

// NewStandaloneDatabaseWithDict 使用外部提供的存储
func NewStandaloneDatabaseWithDict(data dict.Dict) *StandaloneDatabase {
	return &StandaloneDatabase{db: makeDB(data)}
}

// Exec 一条指令出了 panic 只影响这一次回复
func (database *StandaloneDatabase) Exec(client resp.Connection, cmd command.Command) (result resp.Frame) {
	defer func() {
		if err := recover(); err != nil {
			logger.L().Error().
				Str("remote", remoteAddr(client)).
				Str("cmd", cmd.Name()).
				Msg(fmt.Sprint(err))
			result = unknownErrFrame
		}
	}()
	return database.db.Exec(cmd)
}

func (database *StandaloneDatabase) AfterClientClose(c resp.Connection) {
	logger.L().Debug().Str("remote", remoteAddr(c)).Msg("client closed")
}

func (database *StandaloneDatabase) Close() {
	database.db.Flush()
}

func (database *StandaloneDatabase) Len() int {
	return database.db.Len()
}

func remoteAddr(c resp.Connection) string {
	if c == nil || c.RemoteAddr() == nil {
		return ""
	}
	return c.RemoteAddr().String()
}
