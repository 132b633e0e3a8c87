package wsclient

import "sync"

// MessageHandler receives every inbound frame after decoding: a structured
// value when the payload parses as JSON, the raw text otherwise, or a byte
// slice for binary frames.
type MessageHandler func(message any)

// ErrorHandler receives connection-establishment and listener failures.
type ErrorHandler func(err error)

// ConnectHandler fires after every successful open, including reconnects.
type ConnectHandler func(c *Client)

// DisconnectHandler fires when an open connection is lost unexpectedly,
// before any reconnect attempt.
type DisconnectHandler func(c *Client, err error)

// handlers holds at most one callback per event kind, last registration wins.
type handlers struct {
	mutex        sync.RWMutex
	onMessage    MessageHandler
	onError      ErrorHandler
	onConnect    ConnectHandler
	onDisconnect DisconnectHandler
}

// OnMessage registers the message handler, replacing any previous one.
func (c *Client) OnMessage(h MessageHandler) {
	c.handlers.mutex.Lock()
	c.handlers.onMessage = h
	c.handlers.mutex.Unlock()
}

// OnError registers the error handler, replacing any previous one.
func (c *Client) OnError(h ErrorHandler) {
	c.handlers.mutex.Lock()
	c.handlers.onError = h
	c.handlers.mutex.Unlock()
}

// OnConnect registers the connect handler, replacing any previous one.
func (c *Client) OnConnect(h ConnectHandler) {
	c.handlers.mutex.Lock()
	c.handlers.onConnect = h
	c.handlers.mutex.Unlock()
}

// OnDisconnect registers the disconnect handler, replacing any previous one.
func (c *Client) OnDisconnect(h DisconnectHandler) {
	c.handlers.mutex.Lock()
	c.handlers.onDisconnect = h
	c.handlers.mutex.Unlock()
}

// guard invokes a handler and recovers any panic so a failing handler cannot
// kill the listener loop.
func (c *Client) guard(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panicked", "handler", kind, "err", r)
		}
	}()
	fn()
}

func (c *Client) dispatchMessage(message any) {
	c.handlers.mutex.RLock()
	h := c.handlers.onMessage
	c.handlers.mutex.RUnlock()

	c.logger.Debug("received", "message", message)
	if h == nil {
		return
	}
	c.guard("message", func() { h(message) })
}

func (c *Client) dispatchError(err error) {
	c.handlers.mutex.RLock()
	h := c.handlers.onError
	c.handlers.mutex.RUnlock()

	if h == nil {
		return
	}
	c.guard("error", func() { h(err) })
}

func (c *Client) dispatchConnect() {
	c.handlers.mutex.RLock()
	h := c.handlers.onConnect
	c.handlers.mutex.RUnlock()

	if h == nil {
		return
	}
	c.guard("connect", func() { h(c) })
}

func (c *Client) dispatchDisconnect(err error) {
	c.handlers.mutex.RLock()
	h := c.handlers.onDisconnect
	c.handlers.mutex.RUnlock()

	if h == nil {
		return
	}
	c.guard("disconnect", func() { h(c, err) })
}
