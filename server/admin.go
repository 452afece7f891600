package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供调参项的读取与更新（热更新基本规则）
// GET /admin/config  返回当前配置
// POST /admin/config 以 JSON 载荷更新部分字段
// 速度与限流默认值即协议约定值，热更只影响运维调试
func (w *World) HandleAdminConfig(rw http.ResponseWriter, r *http.Request) {
	type cfg struct {
		Speed      *float64 `json:"speed,omitempty"`
		InputRate  *float64 `json:"inputRate,omitempty"`
		InputBurst *int     `json:"inputBurst,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		w.mu.RLock()
		cur := cfg{Speed: &w.speed, InputRate: &w.inputRate, InputBurst: &w.inputBurst}
		b, _ := json.Marshal(cur)
		w.mu.RUnlock()
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(b)
		return
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(rw, "invalid json", http.StatusBadRequest)
			return
		}
		w.mu.Lock()
		if body.Speed != nil && *body.Speed > 0 {
			w.speed = *body.Speed
		}
		if body.InputRate != nil && *body.InputRate > 0 {
			w.inputRate = *body.InputRate
		}
		if body.InputBurst != nil && *body.InputBurst > 0 {
			w.inputBurst = *body.InputBurst
		}
		speed, rate, burst := w.speed, w.inputRate, w.inputBurst
		w.mu.Unlock()
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(map[string]any{"ok": true})
		w.log.Infof("config updated: speed=%.2f inputRate=%.1f/s burst=%d", speed, rate, burst)
		return
	default:
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleMetrics 输出运行指标
// GET /metrics
func (w *World) HandleMetrics(rw http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"players": w.reg.Len(),
		"metrics": w.metrics.Snapshot(),
	}
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(payload)
}
