package netsim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 单次转发读取的最大数据块（与仿真脚本的习惯值一致）
const chunkSize = 4096

// Simulator 透明 TCP 代理：在客户端与真实服务器之间逐块转发，
// 按规则独立地施加延迟、抖动与随机丢弃，用于验证弱网容忍度
type Simulator struct {
	cfg   Config
	stats *Stats
	log   *zap.SugaredLogger
}

// New 构建仿真器；配置非法直接报错，不会打开任何 socket
func New(cfg Config, log *zap.SugaredLogger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg, stats: &Stats{}, log: log}, nil
}

// Stats 运行统计（供退出时汇报）
func (s *Simulator) Stats() *Stats { return s.stats }

// Run 监听本地端口并服务，直至 ctx 取消
// 单个连接对的失败只影响它自己，accept 循环持续运行
func (s *Simulator) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr(), err)
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.log.Infof("network simulator listening on %s, forwarding to %s", ln.Addr(), s.cfg.TargetAddr())
	s.log.Infof("conditions: latency=%dms jitter=±%dms loss=%.1f%%",
		s.cfg.LatencyMs, s.cfg.JitterMs, s.cfg.LossRate*100)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warnf("accept: %v", err)
			continue
		}
		go s.handlePair(ctx, conn)
	}
}

// handlePair 为一个入站连接建立到目标的配对连接，
// 并启动两条独立的单向转发循环；任一侧关闭即拆除另一侧
func (s *Simulator) handlePair(ctx context.Context, client net.Conn) {
	pairID := uuid.NewString()[:8]
	s.log.Infof("[%s] client connected from %s", pairID, client.RemoteAddr())

	d := net.Dialer{Timeout: 10 * time.Second}
	target, err := d.DialContext(ctx, "tcp", s.cfg.TargetAddr())
	if err != nil {
		// 目标不可达只关掉这一个客户端，代理继续接新连接
		s.log.Warnf("[%s] dial target %s: %v", pairID, s.cfg.TargetAddr(), err)
		_ = client.Close()
		return
	}
	s.stats.IncPair()

	pairCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-pairCtx.Done()
		_ = client.Close()
		_ = target.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer cancel()
		s.forward(pairCtx, client, target, pairID, "client→server")
	}()
	go func() {
		defer wg.Done()
		defer cancel()
		s.forward(pairCtx, target, client, pairID, "server→client")
	}()
	wg.Wait()
	s.log.Infof("[%s] connection closed", pairID)
}

// forward 单方向转发循环：读一块 → 独立判丢弃 → 独立定延迟 → 写出
// 丢弃的块整块消失，不重试不半发；延迟期间循环挂起，块内顺序不变
func (s *Simulator) forward(ctx context.Context, src, dst net.Conn, pairID, direction string) {
	buf := make([]byte, chunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if s.dropChunk() {
				s.stats.IncDropped()
				s.log.Debugf("[%s] %s: dropped %d bytes (loss simulation)", pairID, direction, n)
			} else {
				delay := s.chunkDelay()
				if delay > 0 {
					s.stats.AddDelay(delay.Nanoseconds())
					t := time.NewTimer(delay)
					select {
					case <-ctx.Done():
						t.Stop()
						return
					case <-t.C:
					}
				}
				if _, werr := dst.Write(buf[:n]); werr != nil {
					if ctx.Err() == nil {
						s.log.Debugf("[%s] %s: write: %v", pairID, direction, werr)
					}
					return
				}
				s.stats.AddForwarded(n)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.log.Debugf("[%s] %s: read: %v", pairID, direction, err)
			}
			return
		}
	}
}

// dropChunk 按丢包率独立判定本块是否丢弃
func (s *Simulator) dropChunk() bool {
	return rand.Float64() < s.cfg.LossRate
}

// chunkDelay 计算本块延迟：max(0, base + uniform(-jitter, +jitter))
func (s *Simulator) chunkDelay() time.Duration {
	d := float64(s.cfg.LatencyMs)
	if s.cfg.JitterMs > 0 {
		j := float64(s.cfg.JitterMs)
		d += rand.Float64()*2*j - j
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d * float64(time.Millisecond))
}
