package server

import (
	"sort"
	"strconv"
	"sync"
)

// Registry 进程级会话注册表：连接 → 权威玩家状态
// 结构性操作（注册/注销/快照）与玩家字段写入共用同一把锁，
// Tick 广播取到的永远是一致快照，不会读到半更新的玩家
type Registry struct {
	mu      sync.RWMutex
	players map[*ClientConn]*Player
	nextID  int64
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{players: make(map[*ClientConn]*Player)}
}

// Register 为新连接分配会话：ID 取进程生命周期内单调递增的序号
// （十进制字符串，从 "0" 起），出生点为原点，速度为零。不会失败
func (r *Registry) Register(conn *ClientConn) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &Player{
		ID:   strconv.FormatInt(r.nextID, 10),
		Conn: conn,
	}
	r.nextID++
	r.players[conn] = p
	return p
}

// Unregister 移除连接对应的会话；幂等，重复注销是 no-op
// 返回被移除玩家的 ID 与是否真的移除了条目，
// 调用方据此保证 playerLeft 恰好广播一次
func (r *Registry) Unregister(conn *ClientConn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[conn]
	if !ok {
		return "", false
	}
	delete(r.players, conn)
	return p.ID, true
}

// ApplyInput 在持锁状态下将输入施加到该连接的玩家
// 返回 false 表示连接已不在表内（断开竞态），输入被丢弃
func (r *Registry) ApplyInput(conn *ClientConn, cmd InputCommand, dt, speed, extent float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[conn]
	if !ok {
		return false
	}
	ApplyInput(p, cmd, dt, speed, extent)
	return true
}

// Snapshot 返回所有在线玩家状态的一致副本，按数字 ID 升序
// （协议只要求单次调用内顺序稳定，排序顺带让测试可预期）
func (r *Registry) Snapshot() []PlayerState {
	r.mu.RLock()
	out := make([]PlayerState, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.State())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.ParseInt(out[i].ID, 10, 64)
		b, _ := strconv.ParseInt(out[j].ID, 10, 64)
		return a < b
	})
	return out
}

// Broadcast 将同一份字节投递给所有在线连接
// Enqueue 非阻塞（满则丢），单个慢连接拖不住 Tick，也不影响其他连接
func (r *Registry) Broadcast(b []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for conn := range r.players {
		conn.Enqueue(b)
	}
}

// Len 当前在线会话数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// CloseAll 进程退出时关闭所有连接，解除其读写阻塞
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for conn := range r.players {
		conn.Close()
	}
	r.players = make(map[*ClientConn]*Player)
}
