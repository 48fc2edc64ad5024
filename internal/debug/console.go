package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/corridor/internal/body"
	"github.com/Versifine/corridor/internal/physics"
	"github.com/Versifine/corridor/internal/world"
	"golang.org/x/term"
)

const (
	defaultMovePulse = 180 * time.Millisecond
	yawStep          = 5.0
)

type ControlledBody interface {
	State() physics.State
	Enabled() bool
	SetLocalPosition(pos physics.Vec3)
}

type RosterProvider interface {
	Snapshot() world.RosterSnapshot
}

type direction int

const (
	dirForward direction = iota
	dirBackward
	dirLeft
	dirRight
)

// Console drives the local body from a raw terminal. It is both the input
// source and the camera for the sim loop: arrow keys turn the camera yaw.
type Console struct {
	body      ControlledBody
	roster    RosterProvider
	movePulse time.Duration
	out       io.Writer
	now       func() time.Time

	mu             sync.Mutex
	held           [4]time.Time
	jumpPending    bool
	respawnPending bool
	yawDeg         float64
	cameraDetached bool
	commandMode    bool
	commandBuf     []rune
	statusWidth    int
}

func NewConsole(body ControlledBody, roster RosterProvider) *Console {
	return &Console{
		body:      body,
		roster:    roster,
		movePulse: defaultMovePulse,
		out:       os.Stdout,
		now:       time.Now,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.body == nil {
		return fmt.Errorf("console body is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, R respawn, arrows turn, : command)\r\n")
	c.RenderStatus(c.body.State())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	keys, readErr := readKeys(ctx, os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		case b, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if b == 3 { // Ctrl+C is swallowed by raw mode
				return nil
			}
			c.handleKey(b, func() (byte, bool) {
				select {
				case next := <-keys:
					return next, true
				case <-time.After(50 * time.Millisecond):
					return 0, false
				}
			})
		}
	}
}

// readKeys pumps bytes from r until ctx is done or r fails, then closes keys.
// A Read already blocked on r is left behind.
func readKeys(ctx context.Context, r io.Reader) (<-chan byte, <-chan error) {
	keys := make(chan byte)
	readErr := make(chan error, 1)
	reader := bufio.NewReader(r)
	go func() {
		defer close(keys)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case keys <- b:
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys, readErr
}

// NextInput samples the held movement keys and consumes the jump and
// respawn edges.
func (c *Console) NextInput() body.InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	input := body.InputState{
		Forward:  now.Before(c.held[dirForward]),
		Backward: now.Before(c.held[dirBackward]),
		Left:     now.Before(c.held[dirLeft]),
		Right:    now.Before(c.held[dirRight]),
		Jump:     c.jumpPending,
		Respawn:  c.respawnPending,
	}
	c.jumpPending = false
	c.respawnPending = false
	return input
}

func (c *Console) Orientation() (physics.Quat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cameraDetached {
		return physics.Quat{}, false
	}
	return physics.QuatFromYaw(c.yawDeg * math.Pi / 180.0), true
}

func (c *Console) handleKey(b byte, next func() (byte, bool)) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(dirForward, dirBackward)
	case 's', 'S':
		c.pulse(dirBackward, dirForward)
	case 'a', 'A':
		c.pulse(dirLeft, dirRight)
	case 'd', 'D':
		c.pulse(dirRight, dirLeft)
	case ' ':
		c.mu.Lock()
		c.jumpPending = true
		c.mu.Unlock()
	case 'r', 'R':
		c.mu.Lock()
		c.respawnPending = true
		c.mu.Unlock()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		if bracket, ok := next(); !ok || bracket != '[' {
			return
		}
		arrow, ok := next()
		if !ok {
			return
		}
		switch arrow {
		case 'D': // left
			c.adjustYaw(yawStep)
		case 'C': // right
			c.adjustYaw(-yawStep)
		}
	}
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s \r:%s", buf, buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		ps := c.body.State()
		fmt.Fprintf(c.out, "[debug] pos=(%.3f,%.3f,%.3f) vy=%.3f ground=%t enabled=%t\r\n",
			ps.Position.X, ps.Position.Y, ps.Position.Z,
			ps.VerticalVelocity,
			ps.Grounded,
			c.body.Enabled(),
		)
	case "roster":
		if c.roster == nil {
			fmt.Fprint(c.out, "[debug] no roster\r\n")
			return
		}
		fmt.Fprintf(c.out, "[debug] %s\r\n", c.roster.Snapshot().String())
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		c.body.SetLocalPosition(physics.Vec3{X: x, Y: y, Z: z})
		fmt.Fprintf(c.out, "[debug] local tp set to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	case "camera":
		if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
			fmt.Fprint(c.out, "[debug] usage: :camera on|off\r\n")
			return
		}
		c.mu.Lock()
		c.cameraDetached = parts[1] == "off"
		c.mu.Unlock()
		fmt.Fprintf(c.out, "[debug] camera %s\r\n", parts[1])
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  R: request respawn while dead\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: yaw +/-5\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :camera on|off\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :roster\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

// RenderStatus redraws the status line. It is called from the sim loop after
// every tick.
func (c *Console) RenderStatus(ps physics.State) {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	yaw := c.yawDeg
	camera := !c.cameraDetached
	width := c.statusWidth
	c.mu.Unlock()

	line := c.statusLine(ps, yaw, camera)
	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) statusLine(ps physics.State, yaw float64, camera bool) string {
	if !c.body.Enabled() {
		return fmt.Sprintf("[YOU DIED | press R to respawn | X:%.2f Z:%.2f]", ps.Position.X, ps.Position.Z)
	}
	return fmt.Sprintf(
		"[YAW:%.1f CAM:%s | X:%.2f Y:%.2f Z:%.2f vy:%.2f ground:%t]",
		yaw,
		boolLabel(camera),
		ps.Position.X,
		ps.Position.Y,
		ps.Position.Z,
		ps.VerticalVelocity,
		ps.Grounded,
	)
}

func (c *Console) pulse(dir, opposite direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held[dir] = c.now().Add(c.movePulse)
	c.held[opposite] = time.Time{}
}

func (c *Console) adjustYaw(delta float64) {
	c.mu.Lock()
	c.yawDeg = normalizeYaw(c.yawDeg + delta)
	yaw := c.yawDeg
	c.mu.Unlock()
	slog.Debug("debug yaw adjusted", "yaw", yaw)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = [4]time.Time{}
	c.jumpPending = false
	c.respawnPending = false
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func normalizeYaw(yaw float64) float64 {
	for yaw <= -180 {
		yaw += 360
	}
	for yaw > 180 {
		yaw -= 360
	}
	return yaw
}
