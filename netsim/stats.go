package netsim

import (
	"sync/atomic"
)

// Stats 记录仿真运行期的转发统计（仅诊断用途，不参与数据协议）
type Stats struct {
	ChunksForwarded int64 // 成功转发的数据块数
	ChunksDropped   int64 // 被丢包规则丢弃的数据块数
	BytesForwarded  int64 // 成功转发的字节数
	TotalDelayNs    int64 // 累计施加的延迟（纳秒）
	PairsOpened     int64 // 建立过的连接对数
}

func (s *Stats) AddForwarded(bytes int) {
	atomic.AddInt64(&s.ChunksForwarded, 1)
	atomic.AddInt64(&s.BytesForwarded, int64(bytes))
}
func (s *Stats) IncDropped() { atomic.AddInt64(&s.ChunksDropped, 1) }
func (s *Stats) AddDelay(ns int64) { atomic.AddInt64(&s.TotalDelayNs, ns) }
func (s *Stats) IncPair() { atomic.AddInt64(&s.PairsOpened, 1) }

// Snapshot 返回只读副本
func (s *Stats) Snapshot() map[string]any {
	fwd := atomic.LoadInt64(&s.ChunksForwarded)
	drop := atomic.LoadInt64(&s.ChunksDropped)
	delay := atomic.LoadInt64(&s.TotalDelayNs)
	total := fwd + drop
	var lossPct, avgDelayMs float64
	if total > 0 {
		lossPct = float64(drop) / float64(total) * 100
	}
	if fwd > 0 {
		avgDelayMs = float64(delay) / float64(fwd) / 1e6
	}
	return map[string]any{
		"chunks_forwarded": fwd,
		"chunks_dropped":   drop,
		"bytes_forwarded":  atomic.LoadInt64(&s.BytesForwarded),
		"pairs_opened":     atomic.LoadInt64(&s.PairsOpened),
		"actual_loss_pct":  lossPct,
		"avg_delay_ms":     avgDelayMs,
	}
}
