package server

import (
	"context"
	"encoding/json"
	"time"
)

// RunTicker 启动世界的 Tick 循环：固定周期采集快照并广播
// 定时是尽力而为的：某一 Tick 超时不做追帧，下一 Tick 等满周期照常触发
// ctx 取消即退出循环（进程关闭）
func (w *World) RunTicker(ctx context.Context) {
	ticker := time.NewTicker(w.TickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			w.broadcastState()
			w.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}

// broadcastState 采集一致快照，封装 state 消息后投递给所有连接
// 投递是 fire-and-forget：单个连接投不进（队列满/已关闭）不影响其他连接
func (w *World) broadcastState() {
	msg := StateMessage{
		Type:      msgState,
		Timestamp: float64(time.Now().UnixNano()) / 1e6,
		Players:   w.reg.Snapshot(),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		w.log.Errorf("marshal state: %v", err)
		return
	}
	w.reg.Broadcast(b)
}
