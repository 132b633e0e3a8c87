package wsclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	logger "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
	"gopkg.in/errgo.v2/errors"
)

const (
	defaultDialTimeout       = time.Second * 30
	defaultPingInterval      = time.Second * 30
	defaultPingTimeout       = time.Second * 10
	defaultReconnectInterval = time.Second * 3
	defaultMaxReconnects     = 5

	defaultUserAgent = "wsclient/1.0"
	keepalivePayload = "keepalive"
	writeWait        = time.Second * 5
)

var (
	ErrNotConnected = errors.New("websocket is not connected")
	ErrConnecting   = errors.New("connect already in progress")
	ErrClosed       = errors.New("websocket has been closed")
	ErrPongTimeout  = errors.New("pong was not received in time")
)

// session bundles one transport connection with its stop channel. teardown
// is safe to call from the listener, Close and the context watcher; only the
// first call closes anything.
type session struct {
	conn  *websocket.Conn
	stopC chan struct{}
	id    string
	once  sync.Once
}

func (s *session) teardown() {
	s.once.Do(func() {
		close(s.stopC)
		_ = s.conn.Close()
	})
}

// Client owns one WebSocket connection and its lifecycle: dialing with
// merged headers, a listener feeding the registered handlers, keepalive
// pings and a bounded automatic reconnect. All connection parameters are
// captured by NewClient and reused verbatim on every reconnect.
type Client struct {
	url       string
	header    http.Header
	tlsConfig *tls.Config
	prefix    string

	dialTimeout       time.Duration
	pingInterval      time.Duration
	pingTimeout       time.Duration
	reconnectInterval time.Duration
	maxReconnects     int

	logger  *logger.Logger
	limiter *rate.Limiter
	ctx     context.Context

	handlers handlers

	status   atomic.Uint32
	attempts atomic.Int32

	mutex sync.Mutex
	sess  *session
	wg    sync.WaitGroup

	writeMu sync.Mutex

	pongMu sync.Mutex
	pongC  chan string
}

// NewClient builds a disconnected Client for the given URL. The context
// bounds the whole client: cancelling it closes any open connection.
func NewClient(ctx context.Context, url string, opts ...Option) *Client {
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Client{
		url:               url,
		ctx:               ctx,
		dialTimeout:       defaultDialTimeout,
		pingInterval:      defaultPingInterval,
		pingTimeout:       defaultPingTimeout,
		reconnectInterval: defaultReconnectInterval,
		maxReconnects:     defaultMaxReconnects,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.logger == nil {
		if len(c.prefix) > 0 {
			c.prefix += "  "
		}
		c.logger = logger.NewWithOptions(os.Stdout, logger.Options{
			ReportTimestamp: true,
			TimeFormat:      "3:04:05PM",
			Prefix:          c.prefix + c.url,
		})
	}
	return c
}

// State reports the current connection state. It never blocks.
func (c *Client) State() Status {
	return Status(c.status.Load())
}

// IsOpen reports whether the connection is currently open.
func (c *Client) IsOpen() bool {
	return c.State() == StatusOpen
}

// Attempts reports how many automatic reconnects have been spent since the
// last successful open.
func (c *Client) Attempts() int {
	return int(c.attempts.Load())
}

// SessionID returns the identifier of the open connection, or an empty
// string while no connection is open.
func (c *Client) SessionID() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	// The torn-down session is kept until Close or a reconnect replaces it,
	// so its id must not leak out once the connection is gone.
	if c.sess == nil || c.State() != StatusOpen {
		return ""
	}
	return c.sess.id
}

// Connect opens the connection. Calling Connect on an open client is a
// no-op; an overlapping call while another Connect is in flight returns
// ErrConnecting. Failures are reported to the error handler and returned,
// leaving the stored parameters untouched for a later retry.
func (c *Client) Connect() error {
	if c.status.CompareAndSwap(uint32(StatusDisconnected), uint32(StatusConnecting)) ||
		c.status.CompareAndSwap(uint32(StatusClosed), uint32(StatusConnecting)) {
		return c.connect()
	}
	if c.State() == StatusOpen {
		return nil
	}
	return ErrConnecting
}

// connect performs one dial with the stored parameters. The caller must have
// moved the status to StatusConnecting already.
func (c *Client) connect() error {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.dialTimeout,
		TLSClientConfig:  c.tlsConfig,
	}
	dialCtx, cancel := context.WithTimeout(c.ctx, c.dialTimeout)
	defer cancel()

	conn, _, err := dialer.DialContext(dialCtx, c.url, c.mergedHeader())
	if err != nil {
		c.status.CompareAndSwap(uint32(StatusConnecting), uint32(StatusDisconnected))
		c.logger.Error("connect failed", "err", err)
		c.dispatchError(fmt.Errorf("connect %s: %w", c.url, err))
		return err
	}

	conn.SetPongHandler(func(appData string) error {
		c.pongMu.Lock()
		if c.pongC != nil {
			select {
			case c.pongC <- appData:
			default:
			}
		}
		c.pongMu.Unlock()
		return nil
	})

	sess := &session{
		conn:  conn,
		stopC: make(chan struct{}),
		id:    uuid.NewString(),
	}

	c.mutex.Lock()
	if c.State() == StatusClosed {
		// Close won the race while we were dialing.
		c.mutex.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.sess = sess
	c.attempts.Store(0)
	c.status.Store(uint32(StatusOpen))
	c.mutex.Unlock()

	c.logger.Info("connected", "session", sess.id)
	c.dispatchConnect()

	c.wg.Add(2)
	go c.listen(sess)
	go c.keepalive(sess)
	go c.watchContext(sess)
	return nil
}

// mergedHeader combines the fixed default headers with the configured
// extras, caller values overriding defaults on key collision.
func (c *Client) mergedHeader() http.Header {
	header := http.Header{}
	header.Set("User-Agent", defaultUserAgent)
	header.Set("Accept", "*/*")
	for key, values := range c.header {
		header.Del(key)
		for _, value := range values {
			header.Add(key, value)
		}
	}
	return header
}

// Send transmits a message as a text frame. Strings and byte slices go out
// verbatim, any other value is serialized as JSON first. It fails with
// ErrNotConnected unless the connection is open.
func (c *Client) Send(message any) error {
	if c.State() != StatusOpen {
		c.logger.Error("send on a connection that is not open", "state", c.State())
		return ErrNotConnected
	}

	data, err := encodePayload(message)
	if err != nil {
		c.logger.Error("encode message failed", "err", err)
		return fmt.Errorf("encode message: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(c.ctx); err != nil {
			return fmt.Errorf("send limiter: %w", err)
		}
	}

	sess := c.current()
	if sess == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Error("send failed", "message", string(data), "err", err)
		return fmt.Errorf("write message: %w", err)
	}
	c.logger.Debug("sent", "message", string(data))
	return nil
}

// SendText transmits a plain text message.
func (c *Client) SendText(message string) error {
	return c.Send(message)
}

// Ping writes a ping control frame and waits for the pong carrying the same
// payload. It returns ErrPongTimeout when no matching pong arrives within
// the ping timeout, and ErrClosed when the connection is torn down while
// waiting.
func (c *Client) Ping(payload []byte) error {
	if c.State() != StatusOpen {
		return ErrNotConnected
	}
	if len(payload) == 0 {
		payload = []byte("ping")
	}

	sess := c.current()
	if sess == nil {
		return ErrNotConnected
	}

	pongC := make(chan string, 1)
	c.pongMu.Lock()
	c.pongC = pongC
	c.pongMu.Unlock()
	defer func() {
		c.pongMu.Lock()
		if c.pongC == pongC {
			c.pongC = nil
		}
		c.pongMu.Unlock()
	}()

	c.writeMu.Lock()
	err := sess.conn.WriteControl(websocket.PingMessage, payload, time.Now().Add(writeWait))
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Error("ping failed", "err", err)
		return fmt.Errorf("write ping: %w", err)
	}

	deadline := time.NewTimer(c.pingTimeout)
	defer deadline.Stop()
	for {
		select {
		case appData := <-pongC:
			if appData == string(payload) {
				c.logger.Debug("pong received", "payload", appData)
				return nil
			}
			// A keepalive pong, not ours. Keep waiting.
		case <-deadline.C:
			c.logger.Error("pong timed out", "payload", string(payload))
			return ErrPongTimeout
		case <-sess.stopC:
			return ErrClosed
		}
	}
}

// Close performs the closing handshake and releases the connection. It is
// idempotent and a no-op when no connection handle exists. Both background
// loops are fully stopped before Close returns, so Close must not be called
// from inside a handler: handlers run on the listener goroutine Close waits
// for.
func (c *Client) Close(code int, reason string) error {
	c.mutex.Lock()
	sess := c.sess
	if sess == nil {
		c.mutex.Unlock()
		return nil
	}
	c.sess = nil
	c.status.Store(uint32(StatusClosed))
	c.mutex.Unlock()

	message := websocket.FormatCloseMessage(code, reason)
	c.writeMu.Lock()
	err := sess.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
	c.writeMu.Unlock()
	if err != nil {
		// The peer may already be gone. The handle is released either way.
		c.logger.Debug("close handshake failed", "err", err)
	}
	sess.teardown()
	c.wg.Wait()

	c.logger.Info("closed", "code", code, "reason", reason)
	return nil
}

// CloseDefault closes with the normal-closure code.
func (c *Client) CloseDefault() error {
	return c.Close(websocket.CloseNormalClosure, "normal closure")
}

func (c *Client) current() *session {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.sess
}

// listen is the per-connection listener: it consumes inbound frames in
// arrival order, dispatches them one at a time, and on an unexpected
// transport closure starts the reconnect protocol.
func (c *Client) listen(sess *session) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("listener panicked", "err", r)
		}
	}()

	for {
		frameType, data, err := sess.conn.ReadMessage()
		if err != nil {
			select {
			case <-sess.stopC:
				return
			default:
			}
			if !c.status.CompareAndSwap(uint32(StatusOpen), uint32(StatusDisconnected)) {
				return
			}
			sess.teardown()
			c.logger.Warn("connection lost", "err", err)
			c.dispatchDisconnect(err)
			go c.maybeReconnect()
			return
		}

		switch frameType {
		case websocket.TextMessage:
			c.dispatchMessage(decodePayload(data))
		case websocket.BinaryMessage:
			c.dispatchMessage(data)
		}
	}
}

// keepalive writes periodic ping control frames while the connection stays
// open.
func (c *Client) keepalive(sess *session) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.stopC:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := sess.conn.WriteControl(websocket.PingMessage, []byte(keepalivePayload), time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				c.logger.Debug("keepalive ping failed", "err", err)
				return
			}
		}
	}
}

// watchContext closes the client when its context is cancelled. It runs
// outside the connection wait group so Close can safely wait for the loops.
func (c *Client) watchContext(sess *session) {
	select {
	case <-c.ctx.Done():
		_ = c.Close(websocket.CloseGoingAway, "context canceled")
	case <-sess.stopC:
	}
}

// maybeReconnect runs the reconnect protocol after an unexpected closure:
// one re-dial with the stored parameters after a fixed wait, bounded by the
// reconnect budget. A failed re-dial does not schedule another attempt; the
// counter only resets on a successful open.
func (c *Client) maybeReconnect() {
	spent := int(c.attempts.Load())
	if spent >= c.maxReconnects {
		c.logger.Error("reconnect budget exhausted", "attempts", spent)
		return
	}
	c.attempts.Inc()
	c.logger.Info("reconnecting", "attempt", c.attempts.Load(), "max", c.maxReconnects)

	timer := time.NewTimer(c.reconnectInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-c.ctx.Done():
		return
	}

	if !c.status.CompareAndSwap(uint32(StatusDisconnected), uint32(StatusConnecting)) {
		// Explicitly closed or reopened by the caller while waiting.
		return
	}
	if err := c.connect(); err != nil {
		c.logger.Error("reconnect failed", "err", err)
	}
}
