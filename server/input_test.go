package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"origin", 0, 0, true},
		{"full right", 1, 0, true},
		{"full diagonal", 1, 1, true},
		{"negative bounds", -1, -1, true},
		{"x too large", 1.5, 0, false},
		{"y too large", 0, 1.001, false},
		{"x too negative", -2, 0, false},
		{"both out of range", 3, -3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := InputCommand{SequenceNumber: 1, Movement: Vec2{X: tc.x, Y: tc.y}}
			assert.Equal(t, tc.want, ValidateInput(cmd))
		})
	}
}

// 字段缺失的消息按零值处理，不应 panic 也不应被拒
func TestValidateInputMissingFields(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"type":"input"}`), &env))
	var cmd InputCommand
	if env.Input != nil {
		cmd = *env.Input
	}
	assert.True(t, ValidateInput(cmd))

	require.NoError(t, json.Unmarshal([]byte(`{"type":"input","input":{"sequenceNumber":7}}`), &env))
	require.NotNil(t, env.Input)
	assert.True(t, ValidateInput(*env.Input))
	assert.Equal(t, int64(7), env.Input.SequenceNumber)
}

func TestApplyInputMovesPlayer(t *testing.T) {
	p := &Player{ID: "0"}
	cmd := InputCommand{SequenceNumber: 1, Movement: Vec2{X: 1, Y: 0}}

	ApplyInput(p, cmd, 0.1, 5.0, 50.0)

	assert.InDelta(t, 0.5, p.Position.X, 1e-9)
	assert.InDelta(t, 0.0, p.Position.Y, 1e-9)
	assert.InDelta(t, 5.0, p.Velocity.X, 1e-9)
	assert.InDelta(t, 0.0, p.Velocity.Y, 1e-9)
	assert.Equal(t, int64(1), p.LastProcessedInput)
}

func TestApplyInputClampsToWorldBounds(t *testing.T) {
	p := &Player{ID: "0", Position: Vec2{X: 49.8}}
	cmd := InputCommand{SequenceNumber: 2, Movement: Vec2{X: 1, Y: 0}}

	ApplyInput(p, cmd, 0.1, 5.0, 50.0)

	assert.InDelta(t, 50.0, p.Position.X, 1e-9)
	assert.InDelta(t, 0.0, p.Position.Y, 1e-9)
	assert.Equal(t, int64(2), p.LastProcessedInput)

	p.Position = Vec2{X: -49.9, Y: -49.9}
	ApplyInput(p, InputCommand{SequenceNumber: 3, Movement: Vec2{X: -1, Y: -1}}, 0.5, 5.0, 50.0)
	assert.InDelta(t, -50.0, p.Position.X, 1e-9)
	assert.InDelta(t, -50.0, p.Position.Y, 1e-9)
}

// 任意合法输入施加后位置都应落在世界矩形内
func TestApplyInputPositionAlwaysInBounds(t *testing.T) {
	p := &Player{ID: "0"}
	moves := []Vec2{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {1, 0}, {0, 1}, {0.5, -0.3}}
	for i := 0; i < 2000; i++ {
		m := moves[i%len(moves)]
		ApplyInput(p, InputCommand{SequenceNumber: int64(i), Movement: m}, 0.25, 5.0, 50.0)
		assert.LessOrEqual(t, p.Position.X, 50.0)
		assert.GreaterOrEqual(t, p.Position.X, -50.0)
		assert.LessOrEqual(t, p.Position.Y, 50.0)
		assert.GreaterOrEqual(t, p.Position.Y, -50.0)
	}
}

// 速度由最近一次输入决定，不做积分：停止输入方向即速度归零
func TestApplyInputVelocityNotIntegrated(t *testing.T) {
	p := &Player{ID: "0"}
	ApplyInput(p, InputCommand{SequenceNumber: 1, Movement: Vec2{X: 1, Y: 1}}, 0.05, 5.0, 50.0)
	ApplyInput(p, InputCommand{SequenceNumber: 2, Movement: Vec2{X: 0, Y: 0}}, 0.05, 5.0, 50.0)
	assert.Zero(t, p.Velocity.X)
	assert.Zero(t, p.Velocity.Y)
}

// 序列号无条件覆盖：乱序到达的旧输入也会回写更小的值（协议如此约定）
func TestApplyInputSequenceOverwrittenUnconditionally(t *testing.T) {
	p := &Player{ID: "0"}
	ApplyInput(p, InputCommand{SequenceNumber: 10, Movement: Vec2{X: 1}}, 0.05, 5.0, 50.0)
	assert.Equal(t, int64(10), p.LastProcessedInput)

	ApplyInput(p, InputCommand{SequenceNumber: 3, Movement: Vec2{X: 1}}, 0.05, 5.0, 50.0)
	assert.Equal(t, int64(3), p.LastProcessedInput)
}
