package server

import "encoding/json"

// 入站信封（WebSocket 文本消息）
// 示例：{"type":"input","input":{"sequenceNumber":3,"movement":{"x":1,"y":0}}}
// ping 的 sentAt 用 RawMessage 保存，原样回显，不关心客户端放了什么类型
type Envelope struct {
	Type   string          `json:"type"`
	Input  *InputCommand   `json:"input,omitempty"`
	SentAt json.RawMessage `json:"sentAt,omitempty"`
}

// 出站消息类型
const (
	msgConnected  = "connected"
	msgState      = "state"
	msgPong       = "pong"
	msgPlayerLeft = "playerLeft"
)

// ConnectedMessage 握手成功后立即下发一次
type ConnectedMessage struct {
	Type     string      `json:"type"`
	ClientID string      `json:"clientId"`
	Player   PlayerState `json:"player"`
}

// StateMessage 每 Tick 广播的全量世界快照
// Timestamp 为快照采集时刻（毫秒，浮点，Unix 纪元）
type StateMessage struct {
	Type      string        `json:"type"`
	Timestamp float64       `json:"timestamp"`
	Players   []PlayerState `json:"players"`
}

// PongMessage 回显 ping 的 sentAt 字段
type PongMessage struct {
	Type   string          `json:"type"`
	SentAt json.RawMessage `json:"sentAt"`
}

// PlayerLeftMessage 玩家断开后通知其余客户端
type PlayerLeftMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}
