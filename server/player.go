package server

// Vec2 二维向量，位置/速度/移动意图共用同一线格式
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerState 为广播给客户端的轻量状态（每 Tick 全量下发）
type PlayerState struct {
	ID                 string `json:"id"`
	Position           Vec2   `json:"position"`
	Velocity           Vec2   `json:"velocity"`
	LastProcessedInput int64  `json:"lastProcessedInput"`
}

// Player 世界内的玩家实体（服务端权威状态）
// 仅由注册表在持锁状态下读写；连接断开即销毁，不跨会话复用
type Player struct {
	ID       string
	Position Vec2
	Velocity Vec2

	// 最近一次被应用的输入序列号，供客户端做和解（reconciliation）
	LastProcessedInput int64

	Conn *ClientConn // 网络连接的发送端（写协程）
}

// State 导出当前状态的只读快照
func (p *Player) State() PlayerState {
	return PlayerState{
		ID:                 p.ID,
		Position:           p.Position,
		Velocity:           p.Velocity,
		LastProcessedInput: p.LastProcessedInput,
	}
}
