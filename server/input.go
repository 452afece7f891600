package server

// InputCommand 客户端输入（意图），服务端权威解释后驱动玩家状态
// movement 每轴取值 [-1,1]；缺失字段按 0 处理（JSON 零值），不会崩溃
type InputCommand struct {
	SequenceNumber int64 `json:"sequenceNumber"`
	Movement       Vec2  `json:"movement"`
}

// ValidateInput 校验输入是否在允许范围内
// 唯一规则：任一轴绝对值 > 1 即拒绝；被拒的输入静默丢弃，不回错给客户端
func ValidateInput(cmd InputCommand) bool {
	if cmd.Movement.X > 1 || cmd.Movement.X < -1 {
		return false
	}
	if cmd.Movement.Y > 1 || cmd.Movement.Y < -1 {
		return false
	}
	return true
}

// ApplyInput 将一条已通过校验的输入施加到玩家状态
// 速度完全由本次输入决定（不做积分），位置逐轴裁剪到 [-extent, extent]
// LastProcessedInput 无条件覆盖，不做单调性保护（旧序列也会回写，
// 客户端重连重置计数时依赖该行为）
func ApplyInput(p *Player, cmd InputCommand, dt, speed, extent float64) {
	p.Velocity.X = cmd.Movement.X * speed
	p.Velocity.Y = cmd.Movement.Y * speed
	p.Position.X = clamp(p.Position.X+p.Velocity.X*dt, -extent, extent)
	p.Position.Y = clamp(p.Position.Y+p.Velocity.Y*dt, -extent, extent)
	p.LastProcessedInput = cmd.SequenceNumber
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
