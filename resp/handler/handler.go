// Package handler -----------------------------
// @file      : handler.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/3 11:20
// -------------------------------------------
package handler

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/majimaccho/my-redis/command"
	databaseface "github.com/majimaccho/my-redis/interface/database"
	"github.com/majimaccho/my-redis/lib/logger"
	"github.com/majimaccho/my-redis/lib/metrics"
	"github.com/majimaccho/my-redis/resp/connection"
	"github.com/majimaccho/my-redis/resp/frame"
)

var maxClientsErrFrame = frame.Error("ERR max number of clients reached")

// Options 协议层的设置
type Options struct {
	Conn connection.Options
	// MaxClients 0 表示不限制
	MaxClients int
}

// RespHandler 实现 tcp.Handler，每个连接一个读-解析-执行-写的循环
type RespHandler struct {
	// 记录协议层保持连接的用户信息
	activeConn sync.Map
	active     atomic.Int64
	db         databaseface.Database
	opts       Options
	closing    atomic.Bool
}

func MakeHandler(db databaseface.Database, opts Options) *RespHandler {
	return &RespHandler{
		db:   db,
		opts: opts,
	}
}

// ActiveConnections 当前正在服务的连接数
func (r *RespHandler) ActiveConnections() int {
	return int(r.active.Load())
}

// Keys 当前存储里 key 的数量
func (r *RespHandler) Keys() int {
	return r.db.Len()
}

// 关闭一个客户端的连接
func (r *RespHandler) closeClient(client *connection.Connection) {
	_ = client.Close()
	r.db.AfterClientClose(client)
	r.activeConn.Delete(client)
	r.active.Add(-1)
	metrics.ConnectionClosed()
}

// Handle 处理一个 TCP 连接，直到连接关闭
// 同一个连接上严格一问一答：第 N 个回复写完之后才读第 N+1 个请求
func (r *RespHandler) Handle(ctx context.Context, conn net.Conn) {
	client := connection.NewConn(conn, r.opts.Conn)
	r.activeConn.Store(client, struct{}{})
	n := r.active.Add(1)
	metrics.ConnectionOpened()
	defer r.closeClient(client)
	// 先登记再检查：Close 可能在 Store 之前已经遍历过 activeConn
	if r.closing.Load() {
		return
	}

	log := logger.L().With().Str("remote", conn.RemoteAddr().String()).Logger()
	if r.opts.MaxClients > 0 && n > int64(r.opts.MaxClients) {
		log.Warn().Int64("active", n).Msg("max number of clients reached")
		_ = client.WriteFrame(maxClientsErrFrame)
		return
	}

	for ctx.Err() == nil {
		f, err := client.ReadFrame()
		if err != nil {
			r.handleReadError(client, err)
			return
		}
		if f == nil {
			log.Info().Msg("connection closed")
			return
		}

		cmd, err := command.FromFrame(f)
		if err != nil {
			recordRequestError(err)
			log.Debug().Err(err).Msg("bad request")
			if err := client.WriteFrame(frame.ToErrorFrame(err)); err != nil {
				return
			}
			if frame.ShouldCloseConnection(err) {
				return
			}
			continue
		}

		result := r.db.Exec(client, cmd)
		if err := client.WriteFrame(result); err != nil {
			if !connection.IsClosed(err) {
				log.Warn().Err(err).Str("cmd", cmd.Name()).Msg("write reply failed")
			}
			return
		}
	}
}

// handleReadError 传输错误直接断开，协议错误先回一个错误帧再断开
func (r *RespHandler) handleReadError(client *connection.Connection, err error) {
	log := logger.L().With().Str("remote", client.RemoteAddr().String()).Logger()
	var protoErr *frame.ProtocolError
	if errors.As(err, &protoErr) {
		if errors.Is(err, frame.ErrFrameTooLarge) {
			metrics.RecordProtocolError("too_large")
		} else {
			metrics.RecordProtocolError("syntax")
		}
		log.Warn().Err(err).Msg("protocol error, closing connection")
		_ = client.WriteFrame(protoErr.ToFrame())
		return
	}
	if connection.IsClosed(err) {
		log.Info().Err(err).Msg("connection closed")
		return
	}
	if connection.IsTimeout(err) {
		log.Info().Err(err).Msg("idle timeout, closing connection")
		return
	}
	log.Warn().Err(err).Msg("read failed")
}

func recordRequestError(err error) {
	var (
		argErr     *frame.ArgNumError
		unknownErr *frame.UnknownCommandError
	)
	switch {
	case errors.As(err, &argErr):
		metrics.RecordProtocolError("arity")
	case errors.As(err, &unknownErr):
		metrics.RecordProtocolError("unknown")
	default:
		metrics.RecordProtocolError("shape")
	}
}

// Close 关闭整个 handler
func (r *RespHandler) Close() error {
	if !r.closing.CompareAndSwap(false, true) {
		return nil
	}
	logger.Info("handler shutting down ...")
	// 逐个断开客户端的连接
	r.activeConn.Range(func(key interface{}, value interface{}) bool {
		client := key.(*connection.Connection)
		_ = client.Close()
		return true
	})
	r.db.Close()
	return nil
}
