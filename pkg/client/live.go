package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fruitsalade/livebrowse/internal/logging"
	"github.com/fruitsalade/livebrowse/internal/metrics"
	"github.com/fruitsalade/livebrowse/pkg/protocol"
	"github.com/fruitsalade/livebrowse/pkg/retry"
)

// DefaultReconnectDelay is the wait between a closed connection and the next attempt.
const DefaultReconnectDelay = 3 * time.Second

// Status is the state of the live-update channel.
type Status string

const (
	Disconnected Status = "disconnected"
	Connecting   Status = "connecting"
	Connected    Status = "connected"
)

// Conn is an open push connection. *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens push connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type wsDialer struct {
	d *websocket.Dialer
}

func (w wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := w.d.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// WebSocketDialer returns a Dialer backed by gorilla/websocket.
func WebSocketDialer() Dialer {
	return wsDialer{d: websocket.DefaultDialer}
}

// Handler receives channel events. Calls come from the channel's goroutines;
// implementations must not block.
type Handler interface {
	OnStatus(Status)
	OnOpen()
	OnUpdate()
}

// LiveConfig configures a LiveChannel.
type LiveConfig struct {
	URL    string
	Dialer Dialer
	// Delay before reconnecting after a close. Zero means DefaultReconnectDelay.
	Delay time.Duration
	// AfterFunc schedules f after d and returns a function that cancels it.
	// Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) (stop func() bool)
}

// ChannelError describes a failed push connection.
type ChannelError struct {
	Op  string // "dial" or "read"
	URL string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("push channel %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// LiveChannel keeps a push connection open and reconnects after it closes.
// It moves between Disconnected, Connecting and Connected; at most one
// connection exists and at most one reconnect is pending at any time.
type LiveChannel struct {
	url       string
	dialer    Dialer
	reconnect retry.Config
	afterFunc func(time.Duration, func()) func() bool
	handler   Handler

	mu        sync.Mutex
	status    Status
	conn      Conn
	pending   bool
	attempts  int // reconnects since the last successful connect
	stopTimer func() bool
	stopped   bool
	lastErr   error
}

// NewLiveChannel creates a disconnected channel. Call Connect to start it.
func NewLiveChannel(cfg LiveConfig, h Handler) *LiveChannel {
	if cfg.Dialer == nil {
		cfg.Dialer = WebSocketDialer()
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultReconnectDelay
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		}
	}
	return &LiveChannel{
		url:       cfg.URL,
		dialer:    cfg.Dialer,
		reconnect: retry.Fixed(cfg.Delay),
		afterFunc: cfg.AfterFunc,
		handler:   h,
		status:    Disconnected,
	}
}

// Status returns the current state.
func (c *LiveChannel) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastError returns the most recent connection error, if any.
func (c *LiveChannel) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ReconnectPending reports whether a reconnect is scheduled.
func (c *LiveChannel) ReconnectPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Connect starts a connection attempt unless one is open or in progress.
func (c *LiveChannel) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.stopped || c.status != Disconnected || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.status = Connecting
	c.mu.Unlock()

	c.notifyStatus(Connecting)
	go c.run(ctx)
}

func (c *LiveChannel) run(ctx context.Context) {
	conn, err := c.dialer.Dial(ctx, c.url)
	if err != nil {
		c.onError(&ChannelError{Op: "dial", URL: c.url, Err: err})
		c.onClose(ctx)
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		conn.Close()
		c.onClose(ctx)
		return
	}
	c.conn = conn
	c.status = Connected
	c.attempts = 0
	c.lastErr = nil
	c.mu.Unlock()

	logging.Info("push channel connected", logging.String("url", c.url))
	c.notifyStatus(Connected)
	c.handler.OnOpen()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) && ctx.Err() == nil && !c.isStopped() {
				c.onError(&ChannelError{Op: "read", URL: c.url, Err: err})
			} else {
				logging.Info("push channel closed", logging.Err(err))
			}
			conn.Close()
			c.onClose(ctx)
			return
		}
		c.onMessage(data)
	}
}

func (c *LiveChannel) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *LiveChannel) onMessage(data []byte) {
	msg, err := protocol.ParsePushMessage(data)
	if err != nil {
		metrics.RecordPushMessage("malformed")
		logging.Warn("malformed push message", logging.Err(err), logging.Int("bytes", len(data)))
		return
	}
	metrics.RecordPushMessage(msg.Type)
	if msg.Type != protocol.EventUpdate {
		logging.Debug("ignoring push message", logging.String("type", msg.Type))
		return
	}
	logging.Debug("update received, reloading")
	c.handler.OnUpdate()
}

// onError marks the channel disconnected without scheduling a reconnect.
func (c *LiveChannel) onError(err error) {
	logging.Warn("push channel error", logging.Err(err))
	c.mu.Lock()
	c.lastErr = err
	changed := c.status != Disconnected
	c.status = Disconnected
	c.mu.Unlock()
	if changed {
		c.notifyStatus(Disconnected)
	}
}

// onClose marks the channel disconnected and schedules one reconnect.
func (c *LiveChannel) onClose(ctx context.Context) {
	c.mu.Lock()
	c.conn = nil
	changed := c.status != Disconnected
	c.status = Disconnected
	schedule := !c.stopped && !c.pending && ctx.Err() == nil
	var delay time.Duration
	if schedule {
		c.attempts++
		delay = c.reconnect.Delay(c.attempts)
		c.pending = true
		c.stopTimer = c.afterFunc(delay, func() {
			c.mu.Lock()
			c.pending = false
			c.stopTimer = nil
			c.mu.Unlock()
			c.Connect(ctx)
		})
	}
	c.mu.Unlock()

	if changed {
		c.notifyStatus(Disconnected)
	}
	if schedule {
		metrics.RecordReconnectScheduled()
		logging.Info("push channel disconnected, reconnecting", logging.Duration("delay", delay))
	}
}

func (c *LiveChannel) notifyStatus(s Status) {
	metrics.SetConnectionState(string(s))
	c.handler.OnStatus(s)
}

// Close closes the connection and cancels any pending reconnect.
// The channel cannot be reconnected afterwards.
func (c *LiveChannel) Close() error {
	c.mu.Lock()
	c.stopped = true
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
	c.pending = false
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}
