package server

import (
	"sync/atomic"
)

// Metrics 记录服务端运行期的关键指标（用于监控与调试）
type Metrics struct {
	TickCount       int64 // 统计的 Tick 次数
	TotalTickNs     int64 // Tick 累计耗时（纳秒）
	InputsAccepted  int64 // 被接受并应用的输入数
	InputsRejected  int64 // 校验失败被丢弃的输入数
	RateLimited     int64 // 因限流被丢弃的输入数
	SendQueueDrops  int64 // 因发送队列满被丢弃的出站消息数
	Connects        int64 // 累计接入数
	Disconnects     int64 // 累计断开数
	UnknownMessages int64 // 未知 type 的入站消息数
}

func (m *Metrics) IncAccepted() { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *Metrics) IncRejected() { atomic.AddInt64(&m.InputsRejected, 1) }
func (m *Metrics) IncRateLimited() { atomic.AddInt64(&m.RateLimited, 1) }
func (m *Metrics) IncQueueDrop() { atomic.AddInt64(&m.SendQueueDrops, 1) }
func (m *Metrics) IncConnect() { atomic.AddInt64(&m.Connects, 1) }
func (m *Metrics) IncDisconnect() { atomic.AddInt64(&m.Disconnects, 1) }
func (m *Metrics) IncUnknown() { atomic.AddInt64(&m.UnknownMessages, 1) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":       tick,
		"inputs_accepted":  atomic.LoadInt64(&m.InputsAccepted),
		"inputs_rejected":  atomic.LoadInt64(&m.InputsRejected),
		"rate_limited":     atomic.LoadInt64(&m.RateLimited),
		"send_queue_drops": atomic.LoadInt64(&m.SendQueueDrops),
		"connects":         atomic.LoadInt64(&m.Connects),
		"disconnects":      atomic.LoadInt64(&m.Disconnects),
		"unknown_messages": atomic.LoadInt64(&m.UnknownMessages),
		"avg_tick_ms":      avgMs,
	}
}
