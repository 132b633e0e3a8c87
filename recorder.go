package wsclient

import (
	"sync"
	"time"
)

// Record is one entry of a Recorder's history.
type Record struct {
	Time    time.Time
	Kind    string // "text", "json" or "binary"
	Message any
}

// Stats is a point-in-time summary of a Recorder.
type Stats struct {
	Total         int
	Authenticated bool
	ByKind        map[string]int
}

// Recorder decorates a message handler: it records every message into a
// bounded history and tracks authentication state before invoking the
// wrapped handler. Register its Handle method with OnMessage.
type Recorder struct {
	mutex         sync.Mutex
	history       []Record
	limit         int
	authenticated bool
	token         string
	next          MessageHandler
}

// NewRecorder wraps next, which may be nil when only the history is wanted.
// A limit of 0 keeps the history unbounded; otherwise the oldest records are
// dropped once the limit is reached.
func NewRecorder(next MessageHandler, limit int) *Recorder {
	return &Recorder{next: next, limit: limit}
}

// Handle records the message and forwards it to the wrapped handler.
func (r *Recorder) Handle(message any) {
	record := Record{Time: time.Now(), Message: message}
	switch message.(type) {
	case []byte:
		record.Kind = "binary"
	case string:
		record.Kind = "text"
	default:
		record.Kind = "json"
	}

	r.mutex.Lock()
	r.history = append(r.history, record)
	if r.limit > 0 && len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
	if m, ok := message.(map[string]any); ok && m["type"] == "auth_response" {
		r.authenticated = m["success"] == true
	}
	next := r.next
	r.mutex.Unlock()

	if next != nil {
		next(message)
	}
}

// Authenticate sends an authentication request through the client and
// remembers the token. The authenticated flag flips when the matching
// auth_response message arrives.
func (r *Recorder) Authenticate(c *Client, token string) error {
	err := c.Send(map[string]any{
		"type":      "authenticate",
		"token":     token,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	r.mutex.Lock()
	r.token = token
	r.mutex.Unlock()
	return nil
}

// Authenticated reports whether a successful auth_response has been seen.
func (r *Recorder) Authenticated() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.authenticated
}

// History returns a copy of the recorded messages in arrival order.
func (r *Recorder) History() []Record {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	history := make([]Record, len(r.history))
	copy(history, r.history)
	return history
}

// Stats summarizes the recorded traffic.
func (r *Recorder) Stats() Stats {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	byKind := make(map[string]int, 3)
	for _, record := range r.history {
		byKind[record.Kind]++
	}
	return Stats{
		Total:         len(r.history),
		Authenticated: r.authenticated,
		ByKind:        byKind,
	}
}
