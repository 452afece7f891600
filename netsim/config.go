package netsim

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config 网络状况仿真的连接级规则：对被代理连接的两个方向独立、
// 等同地生效，连接存续期间固定不变
type Config struct {
	TargetHost string  `validate:"required"`
	TargetPort int     `validate:"gt=0,lte=65535"`
	ListenPort int     `validate:"gt=0,lte=65535"`
	LatencyMs  int     `validate:"gte=0"` // 基础延迟（毫秒）
	JitterMs   int     `validate:"gte=0"` // 对称抖动幅度（毫秒）
	LossRate   float64 `validate:"gte=0,lte=1"`
}

var validate = validator.New()

// Validate 启动前校验配置；必须在任何 socket 打开之前调用
// 校验失败的信息做了人类可读的翻译（validator 原始输出偏机器味）
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Field() {
		case "LossRate":
			msgs = append(msgs, fmt.Sprintf("packet loss must be between 0.0 and 1.0, got %v", e.Value()))
		case "LatencyMs":
			msgs = append(msgs, fmt.Sprintf("latency must be >= 0, got %v", e.Value()))
		case "JitterMs":
			msgs = append(msgs, fmt.Sprintf("jitter must be >= 0, got %v", e.Value()))
		case "TargetHost":
			msgs = append(msgs, "target host is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s must be a valid port, got %v", e.Field(), e.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// TargetAddr 目标服务器地址 host:port
func (c Config) TargetAddr() string {
	return fmt.Sprintf("%s:%d", c.TargetHost, c.TargetPort)
}

// ListenAddr 本地监听地址
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.ListenPort)
}
