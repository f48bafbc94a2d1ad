// Package database -----------------------------
// @file      : string.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/13 20:37
// -------------------------------------------
package database

import (
	"github.com/majimaccho/my-redis/command"
	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/lib/metrics"
	"github.com/majimaccho/my-redis/resp/frame"
)

// GET k1
func execGet(db *DB, cmd command.Get) resp.Frame {
	val, exists := db.data.Get(cmd.Key)
	if !exists {
		metrics.RecordCommand(cmd.Name(), "miss")
		return frame.MakeNull()
	}
	metrics.RecordCommand(cmd.Name(), "hit")
	return frame.Bulk(val)
}

// SET k1 v
func execSet(db *DB, cmd command.Set) resp.Frame {
	db.data.Put(cmd.Key, cmd.Value)
	metrics.RecordCommand(cmd.Name(), "ok")
	return frame.MakeOK()
}
