package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
// send 通道从不关闭，关闭经由 done 广播，Enqueue 与 Close 并发安全
type ClientConn struct {
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	metrics *Metrics
}

func NewClientConn(ws *websocket.Conn, m *Metrics) *ClientConn {
	return &ClientConn{
		ws:      ws,
		send:    make(chan []byte, 64),
		done:    make(chan struct{}),
		metrics: m,
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
// 为了实时性，宁可丢旧状态帧也不让 Tick 或广播阻塞
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case <-c.done:
	case c.send <- b:
		return
	default:
	}
	if c.metrics != nil {
		c.metrics.IncQueueDrop()
	}
}

// Close 关闭底层连接并通知写协程退出；幂等
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.done)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.Close()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：升级、注册会话、下发 connected、启动读写泵
func (w *World) HandleWS(rw http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.log.Warnf("upgrade error: %v", err)
		return
	}

	conn := NewClientConn(ws, w.metrics)
	p := w.reg.Register(conn)
	w.metrics.IncConnect()
	w.log.Infof("client %s connected from %s", p.ID, ws.RemoteAddr())

	b, _ := json.Marshal(ConnectedMessage{Type: msgConnected, ClientID: p.ID, Player: p.State()})
	conn.Enqueue(b)

	go conn.writePump()
	go w.readPump(conn, p.ID)
}

// dropClient 关闭连接、注销会话并向其余客户端广播 playerLeft
// Unregister 幂等，只有真正移除条目的那次才广播，保证恰好一次
func (w *World) dropClient(conn *ClientConn) {
	conn.Close()
	if id, removed := w.reg.Unregister(conn); removed {
		w.metrics.IncDisconnect()
		w.log.Infof("client %s disconnected", id)
		b, _ := json.Marshal(PlayerLeftMessage{Type: msgPlayerLeft, PlayerID: id})
		w.reg.Broadcast(b)
	}
}

// readPump 读取客户端消息并分发；退出时注销会话并广播 playerLeft
func (w *World) readPump(conn *ClientConn, playerID string) {
	defer w.dropClient(conn)

	conn.ws.SetReadLimit(1 << 20) // 1MB
	_ = conn.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	perSec, burst := w.inputLimit()
	limiter := rate.NewLimiter(rate.Limit(perSec), burst)

	for {
		_, payload, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.ws.SetReadDeadline(time.Now().Add(60 * time.Second))

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			// 坏消息只记日志，连接保持打开
			w.log.Debugf("client %s: invalid json: %v", playerID, err)
			continue
		}

		switch env.Type {
		case "input":
			var cmd InputCommand
			if env.Input != nil {
				cmd = *env.Input
			}
			// 限流参数可经 /admin/config 热更，对在线连接同样生效
			if p, b := w.inputLimit(); limiter.Limit() != rate.Limit(p) || limiter.Burst() != b {
				limiter.SetLimit(rate.Limit(p))
				limiter.SetBurst(b)
			}
			if !limiter.Allow() {
				w.metrics.IncRateLimited()
				continue
			}
			if !ValidateInput(cmd) {
				// 越界输入静默丢弃，不回错
				w.metrics.IncRejected()
				w.log.Debugf("invalid input from client %s: seq=%d", playerID, cmd.SequenceNumber)
				continue
			}
			speed, extent := w.tunables()
			if w.reg.ApplyInput(conn, cmd, w.TickInterval().Seconds(), speed, extent) {
				w.metrics.IncAccepted()
			}
		case "ping":
			b, _ := json.Marshal(PongMessage{Type: msgPong, SentAt: env.SentAt})
			conn.Enqueue(b)
		default:
			w.metrics.IncUnknown()
			w.log.Debugf("unknown message type %q from client %s", env.Type, playerID)
		}
	}
}
