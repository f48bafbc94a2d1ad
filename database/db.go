// Package database -----------------------------
// @file      : db.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/10 20:55
// -------------------------------------------
package database

import (
	"github.com/majimaccho/my-redis/command"
	"github.com/majimaccho/my-redis/datastruct/dict"
	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/resp/frame"
)

// DB 共享的存储，每条指令对它只做一次加锁的读或写
type DB struct {
	data dict.Dict
}

func makeDB(data dict.Dict) *DB {
	return &DB{data: data}
}

// Exec 执行一条指令并返回回复帧
// 不会阻塞在 I/O 上，连接在任何时候被丢弃都不会留下做了一半的修改
func (db *DB) Exec(cmd command.Command) resp.Frame {
	switch c := cmd.(type) {
	case command.Get:
		return execGet(db, c)
	case command.Set:
		return execSet(db, c)
	default:
		return frame.ToErrorFrame(&frame.UnknownCommandError{Name: cmd.Name()})
	}
}

func (db *DB) Len() int {
	return db.data.Len()
}

func (db *DB) Flush() {
	db.data.Clear()
}
