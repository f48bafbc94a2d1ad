// Package metrics -----------------------------
// @file      : metrics.go
// @author    : hcjjj
// @contact   : hcjjj@foxmail.com
// @time      : 2026/10/15 20:05
// -------------------------------------------
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	connectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "myredis",
			Subsystem: "connections",
			Name:      "active",
			Help:      "Client connections currently being served.",
		},
	)
	connectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "myredis",
			Subsystem: "connections",
			Name:      "total",
			Help:      "Client connections accepted since start.",
		},
	)
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "myredis",
			Name:      "commands_total",
			Help:      "Commands executed, by command and result.",
		},
		[]string{"cmd", "result"},
	)
	protocolErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "myredis",
			Name:      "protocol_errors_total",
			Help:      "Requests rejected before reaching the store.",
		},
		[]string{"kind"},
	)
)

// Register 注册到默认的 registry，重复调用没有副作用
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(connectionsActive, connectionsTotal, commandsTotal, protocolErrors)
	})
}

func ConnectionOpened() {
	connectionsTotal.Inc()
	connectionsActive.Inc()
}

func ConnectionClosed() {
	connectionsActive.Dec()
}

// RecordCommand result 是 hit / miss / ok
func RecordCommand(cmd, result string) {
	commandsTotal.WithLabelValues(cmd, result).Inc()
}

// RecordProtocolError kind 是 syntax / arity / unknown / shape / too_large
func RecordProtocolError(kind string) {
	protocolErrors.WithLabelValues(kind).Inc()
}
