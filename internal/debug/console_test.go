package debug

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Versifine/corridor/internal/physics"
	"github.com/Versifine/corridor/internal/world"
)

type mockBody struct {
	state   physics.State
	enabled bool
}

func (m *mockBody) State() physics.State { return m.state }
func (m *mockBody) Enabled() bool        { return m.enabled }
func (m *mockBody) SetLocalPosition(pos physics.Vec3) {
	m.state = physics.State{Position: pos}
}

func newTestConsole() (*Console, *mockBody, *bytes.Buffer, *time.Time) {
	b := &mockBody{enabled: true}
	roster := world.NewRoster()
	roster.SetLocalID("me")
	roster.SetAlive("me", true)

	var out bytes.Buffer
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewConsole(b, roster)
	c.out = &out
	c.now = func() time.Time { return clock }
	return c, b, &out, &clock
}

func noMoreKeys() (byte, bool) { return 0, false }

func typeKeys(c *Console, keys string) {
	for i := 0; i < len(keys); i++ {
		c.handleKey(keys[i], noMoreKeys)
	}
}

// TestNextInput_MovementPulseExpires 测试移动脉冲到期后自动松开
func TestNextInput_MovementPulseExpires(t *testing.T) {
	c, _, _, clock := newTestConsole()

	typeKeys(c, "wd")
	input := c.NextInput()
	if !input.Forward || !input.Right {
		t.Fatalf("input = %+v, want forward+right", input)
	}

	*clock = clock.Add(defaultMovePulse)
	input = c.NextInput()
	if input.Forward || input.Right {
		t.Fatalf("input = %+v, want released after pulse", input)
	}
}

// TestNextInput_OppositeKeyCancels 测试反方向按键取消当前方向
func TestNextInput_OppositeKeyCancels(t *testing.T) {
	c, _, _, _ := newTestConsole()

	typeKeys(c, "ws")
	input := c.NextInput()
	if input.Forward || !input.Backward {
		t.Fatalf("input = %+v, want backward only", input)
	}
}

// TestNextInput_EdgesConsumedOnce 测试跳跃和复活请求只在一个 tick 内生效
func TestNextInput_EdgesConsumedOnce(t *testing.T) {
	c, _, _, _ := newTestConsole()

	typeKeys(c, " r")
	first := c.NextInput()
	second := c.NextInput()
	if !first.Jump || !first.Respawn {
		t.Fatalf("first input = %+v, want jump and respawn", first)
	}
	if second.Jump || second.Respawn {
		t.Fatalf("second input = %+v, want edges consumed", second)
	}
}

// TestOrientation_ArrowKeysTurnAndDetach 测试方向键调整偏航以及相机开关
func TestOrientation_ArrowKeysTurnAndDetach(t *testing.T) {
	c, _, _, _ := newTestConsole()

	seq := []byte{'[', 'D'}
	c.handleKey(27, func() (byte, bool) {
		b := seq[0]
		seq = seq[1:]
		return b, true
	})

	q, ok := c.Orientation()
	if !ok {
		t.Fatalf("Orientation() ok = false, want attached camera")
	}
	if got := physics.YawFromQuat(q); math.Abs(got-yawStep*math.Pi/180) > 1e-9 {
		t.Fatalf("yaw = %.6f rad, want %.6f", got, yawStep*math.Pi/180)
	}

	typeKeys(c, ":camera off\r")
	if _, ok := c.Orientation(); ok {
		t.Fatalf("Orientation() ok = true after :camera off")
	}
}

// TestExecuteCommand_Teleport 测试 :tp 命令
func TestExecuteCommand_Teleport(t *testing.T) {
	c, b, out, _ := newTestConsole()

	typeKeys(c, ":tp 1 2.5 -3\r")
	if b.state.Position != (physics.Vec3{X: 1, Y: 2.5, Z: -3}) {
		t.Fatalf("position = %+v, want (1, 2.5, -3)", b.state.Position)
	}
	if !strings.Contains(out.String(), "local tp set") {
		t.Fatalf("output = %q, want tp confirmation", out.String())
	}

	out.Reset()
	typeKeys(c, ":tp 1 x 3\r")
	if !strings.Contains(out.String(), "invalid tp args") {
		t.Fatalf("output = %q, want invalid args", out.String())
	}
}

// TestExecuteCommand_Roster 测试 :roster 命令输出
func TestExecuteCommand_Roster(t *testing.T) {
	c, _, out, _ := newTestConsole()

	typeKeys(c, ":roster\r")
	if !strings.Contains(out.String(), "*me:alive") {
		t.Fatalf("output = %q, want roster line", out.String())
	}
}

// TestCommandMode_SwallowsMovementKeys 测试命令模式下不触发移动
func TestCommandMode_SwallowsMovementKeys(t *testing.T) {
	c, _, _, _ := newTestConsole()

	typeKeys(c, ":w")
	if input := c.NextInput(); input.Forward {
		t.Fatalf("input = %+v, command mode should not move", input)
	}
	c.handleKey(27, noMoreKeys)
	if c.isCommandMode() {
		t.Fatalf("ESC should leave command mode")
	}
}

// TestRenderStatus_DeathMarker 测试死亡时状态栏提示复活
func TestRenderStatus_DeathMarker(t *testing.T) {
	c, b, out, _ := newTestConsole()

	c.RenderStatus(physics.State{Position: physics.Vec3{X: 1, Y: 2, Z: 3}})
	if strings.Contains(out.String(), "YOU DIED") {
		t.Fatalf("status = %q, should not show death marker while alive", out.String())
	}

	b.enabled = false
	out.Reset()
	c.RenderStatus(physics.State{})
	if !strings.Contains(out.String(), "press R to respawn") {
		t.Fatalf("status = %q, want death marker", out.String())
	}
}

// TestNormalizeYaw 测试偏航角归一化
func TestNormalizeYaw(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{185, -175},
		{-180, 180},
		{540, 180},
	}
	for _, tt := range tests {
		if got := normalizeYaw(tt.in); got != tt.want {
			t.Errorf("normalizeYaw(%v) = %v, 期望 %v", tt.in, got, tt.want)
		}
	}
}

// TestReadKeys_StopsAfterCancel 测试取消后读取协程不会阻塞在按键投递上
func TestReadKeys_StopsAfterCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	keys, _ := readKeys(ctx, pr)

	// Write returns once the pump has buffered the byte.
	if _, err := pw.Write([]byte("w")); err != nil {
		t.Fatalf("write key: %v", err)
	}
	cancel()
	time.Sleep(50 * time.Millisecond)

	select {
	case b, ok := <-keys:
		if ok {
			t.Fatalf("received key %q after cancel, want closed channel", b)
		}
	case <-time.After(time.Second):
		t.Fatalf("key pump still blocked after cancel")
	}
}

// TestReadKeys_DeliversAndReportsError 测试按键投递与读取结束
func TestReadKeys_DeliversAndReportsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	keys, readErr := readKeys(ctx, strings.NewReader("wa"))

	for _, want := range []byte("wa") {
		select {
		case got := <-keys:
			if got != want {
				t.Fatalf("key = %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
	select {
	case err := <-readErr:
		if err != io.EOF {
			t.Fatalf("readErr = %v, want io.EOF", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for read error")
	}
}
