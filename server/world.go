package server

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// World 单一权威世界：会话注册表 + 运行指标 + 可热更的调参项
// 协议只有一张进程级会话表，不做分房间
type World struct {
	cfg     *Config
	reg     *Registry
	metrics *Metrics
	log     *zap.SugaredLogger

	// 调参项允许经 /admin/config 热更，与读取方并发，单独上锁
	mu         sync.RWMutex
	speed      float64 // 单位/秒
	extent     float64 // 世界半边长，位置裁剪到 [-extent, extent]
	inputRate  float64
	inputBurst int
}

// NewWorld 按配置构建世界
func NewWorld(cfg *Config, log *zap.SugaredLogger) *World {
	return &World{
		cfg:        cfg,
		reg:        NewRegistry(),
		metrics:    &Metrics{},
		log:        log,
		speed:      cfg.Speed,
		extent:     cfg.WorldExtent,
		inputRate:  cfg.InputRate,
		inputBurst: cfg.InputBurst,
	}
}

// TickInterval 固定 Tick 周期 T = 1/tickRate
func (w *World) TickInterval() time.Duration {
	return time.Second / time.Duration(w.cfg.TickRate)
}

func (w *World) tunables() (speed, extent float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.speed, w.extent
}

// Shutdown 关闭所有在线连接，解除读写阻塞（进程退出时调用）
func (w *World) Shutdown() {
	w.reg.CloseAll()
}

func (w *World) inputLimit() (perSec float64, burst int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.inputRate, w.inputBurst
}
