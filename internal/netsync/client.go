package netsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/Versifine/corridor/internal/physics"
	"github.com/Versifine/corridor/internal/world"
	"github.com/gorilla/websocket"
)

var ErrNotConnected = errors.New("netsync: not connected")

const (
	writeWait    = 5 * time.Second
	readLimit    = 1 << 20
	closeTimeout = time.Second
)

// Client keeps the liveness roster in sync with the game server and carries
// the few requests the client sends back. Reads run on Run's goroutine;
// writes may come from any goroutine.
type Client struct {
	addr   string
	player string
	roster *world.Roster
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
	left bool
}

func NewClient(addr, player string, roster *world.Roster) *Client {
	return &Client{
		addr:   addr,
		player: player,
		roster: roster,
		dialer: websocket.DefaultDialer,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	u, err := url.Parse(c.addr)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}
	if c.player != "" {
		q := u.Query()
		q.Set("player", c.player)
		u.RawQuery = q.Encode()
	}

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}
	conn.SetReadLimit(readLimit)

	c.mu.Lock()
	c.conn = conn
	c.left = false
	c.mu.Unlock()
	slog.Info("Connected to game server", "url", u.Redacted())
	return nil
}

// Run reads server messages until ctx is cancelled or the connection drops.
// Cancellation is not an error.
func (c *Client) Run(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || c.closed() || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read server message: %w", err)
		}
		if err := c.handleMessage(payload); err != nil {
			slog.Warn("Dropped malformed server message", "error", err)
		}
	}
}

func (c *Client) handleMessage(payload []byte) error {
	var msg serverMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}

	switch msg.Type {
	case msgWelcome:
		if msg.ID == "" {
			return fmt.Errorf("welcome without id")
		}
		c.roster.SetLocalID(msg.ID)
		slog.Info("Server assigned player id", "id", msg.ID)
	case msgState:
		players := make(map[string]bool, len(msg.Players))
		for id, p := range msg.Players {
			players[id] = p.IsAlive
		}
		c.roster.Replace(players)
	case msgLeft:
		if msg.ID == "" {
			return fmt.Errorf("left without id")
		}
		c.roster.Remove(msg.ID)
		slog.Debug("Player left", "id", msg.ID)
	default:
		slog.Debug("Ignoring server message", "type", msg.Type)
	}
	return nil
}

func (c *Client) RequestRespawn() error {
	return c.send(requestMessage{Type: msgRespawn})
}

func (c *Client) ReportPosition(pos physics.Vec3) error {
	return c.send(positionMessage{Type: msgPosition, X: pos.X, Y: pos.Y, Z: pos.Z})
}

// Leave tells the server we are going away. Only the first call sends.
func (c *Client) Leave() error {
	c.mu.Lock()
	if c.left {
		c.mu.Unlock()
		return nil
	}
	c.left = true
	c.mu.Unlock()
	slog.Info("Sending leave to server")
	return c.send(requestMessage{Type: msgLeave})
}

// Close sends leave and a close frame before dropping the connection.
func (c *Client) Close() error {
	leaveErr := c.Leave()
	if errors.Is(leaveErr, ErrNotConnected) {
		leaveErr = nil
	}

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return leaveErr
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "leaving")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
	if err := conn.Close(); err != nil && leaveErr == nil {
		return err
	}
	return leaveErr
}

func (c *Client) closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil
}

func (c *Client) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
