// Package client -----------------------------
// @file      : pool.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2024/1/17 14:39
// -------------------------------------------
package client

import (
	"context"
	"errors"
	"time"

	pool "github.com/jolestar/go-commons-pool/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/lib/logger"
)

// PoolConfig 连接池和熔断器的设置，零值使用默认值
type PoolConfig struct {
	MaxTotal int
	MaxIdle  int
	// Breaker 的 Name 为空时使用服务端地址
	Breaker gobreaker.Settings
}

// Pool 一个服务端地址的客户端连接池，每次调用都经过熔断器
type Pool struct {
	addr    string
	pool    *pool.ObjectPool
	breaker *gobreaker.CircuitBreaker[resp.Frame]
}

type connectionFactory struct {
	// 保存连接节点的地址
	Peer string
}

func (f connectionFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := MakeClient(f.Peer)
	if err != nil {
		return nil, err
	}
	return pool.NewPooledObject(c), nil
}

func (f connectionFactory) DestroyObject(ctx context.Context, object *pool.PooledObject) error {
	c, ok := object.Object.(*Client)
	if !ok {
		return errors.New("type mismatch")
	}
	return c.Close()
}

func (f connectionFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	c, ok := object.Object.(*Client)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (f connectionFactory) ActivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

func (f connectionFactory) PassivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

func defaultBreakerSettings(addr string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        addr,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.L().Warn().Str("addr", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
}

// NewPool 创建连接池，连接在第一次借用时才建立
func NewPool(addr string, cfg PoolConfig) *Pool {
	poolConfig := pool.NewDefaultPoolConfig()
	if cfg.MaxTotal > 0 {
		poolConfig.MaxTotal = cfg.MaxTotal
	}
	if cfg.MaxIdle > 0 {
		poolConfig.MaxIdle = cfg.MaxIdle
	}
	poolConfig.TestOnBorrow = true

	settings := cfg.Breaker
	if settings.Name == "" && settings.ReadyToTrip == nil {
		settings = defaultBreakerSettings(addr)
	} else if settings.Name == "" {
		settings.Name = addr
	}

	return &Pool{
		addr:    addr,
		pool:    pool.NewObjectPool(context.Background(), &connectionFactory{Peer: addr}, poolConfig),
		breaker: gobreaker.NewCircuitBreaker[resp.Frame](settings),
	}
}

func (p *Pool) Address() string {
	return p.addr
}

// BreakerState 熔断器当前的状态
func (p *Pool) BreakerState() gobreaker.State {
	return p.breaker.State()
}

// Send 借一个客户端发送命令，传输层的错误会计入熔断器
func (p *Pool) Send(ctx context.Context, args [][]byte) (resp.Frame, error) {
	return p.breaker.Execute(func() (resp.Frame, error) {
		return p.send(ctx, args)
	})
}

func (p *Pool) send(ctx context.Context, args [][]byte) (resp.Frame, error) {
	object, err := p.pool.BorrowObject(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := object.(*Client)
	if !ok {
		_ = p.pool.InvalidateObject(ctx, object)
		return nil, errors.New("connection type mismatch")
	}
	f, err := c.Send(args)
	if err != nil {
		_ = p.pool.InvalidateObject(ctx, c)
		return nil, err
	}
	if err := p.pool.ReturnObject(ctx, c); err != nil {
		logger.Warn("return client to pool: " + err.Error())
	}
	return f, nil
}

func (p *Pool) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f, err := p.Send(ctx, [][]byte{[]byte("GET"), []byte(key)})
	if err != nil {
		return nil, false, err
	}
	return getReply(f)
}

func (p *Pool) Set(ctx context.Context, key string, value []byte) error {
	f, err := p.Send(ctx, [][]byte{[]byte("SET"), []byte(key), value})
	if err != nil {
		return err
	}
	return setReply(f)
}

// Close 关闭池里所有的客户端
func (p *Pool) Close() {
	p.pool.Close(context.Background())
}
