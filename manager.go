package wsclient

import (
	"context"
	"os"
	"sync"

	logger "github.com/charmbracelet/log"
)

// Manager owns a named collection of independent clients and aggregates
// bulk operations over them. It never touches a client's internals; every
// bulk operation runs one goroutine per client and collects the outcomes
// independently.
type Manager struct {
	mutex   sync.RWMutex
	clients map[string]*Client
	logger  *logger.Logger
}

// NewManager builds an empty registry. A nil logger gets a console default.
func NewManager(l *logger.Logger) *Manager {
	if l == nil {
		l = logger.NewWithOptions(os.Stdout, logger.Options{
			ReportTimestamp: true,
			TimeFormat:      "3:04:05PM",
			Prefix:          "manager",
		})
	}
	return &Manager{
		clients: make(map[string]*Client),
		logger:  l,
	}
}

// CreateClient registers a new client under the given name, replacing any
// existing entry. The replaced client is not closed; its owner keeps it.
func (m *Manager) CreateClient(ctx context.Context, name, url string, opts ...Option) *Client {
	client := NewClient(ctx, url, opts...)

	m.mutex.Lock()
	if _, ok := m.clients[name]; ok {
		m.logger.Warn("replacing registered client", "name", name)
	}
	m.clients[name] = client
	m.mutex.Unlock()
	return client
}

// GetClient looks up a client by name.
func (m *Manager) GetClient(name string) (*Client, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	client, ok := m.clients[name]
	return client, ok
}

// ConnectAll concurrently connects every registered client that is not
// already open. One client's failure never blocks the others; the returned
// map holds the failures by name and is empty when everything connected.
func (m *Manager) ConnectAll() map[string]error {
	return m.each(func(c *Client) error {
		if c.IsOpen() {
			return nil
		}
		return c.Connect()
	})
}

// CloseAll concurrently closes every registered client. Clients without an
// open connection are a no-op, not a failure.
func (m *Manager) CloseAll() map[string]error {
	return m.each(func(c *Client) error {
		return c.CloseDefault()
	})
}

// ListClients returns a point-in-time snapshot of every client's state.
func (m *Manager) ListClients() map[string]Status {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	states := make(map[string]Status, len(m.clients))
	for name, client := range m.clients {
		states[name] = client.State()
	}
	return states
}

func (m *Manager) each(op func(*Client) error) map[string]error {
	m.mutex.RLock()
	snapshot := make(map[string]*Client, len(m.clients))
	for name, client := range m.clients {
		snapshot[name] = client
	}
	m.mutex.RUnlock()

	failed := make(map[string]error)
	var wg sync.WaitGroup
	var mu sync.Mutex
	for name, client := range snapshot {
		wg.Add(1)
		go func(name string, client *Client) {
			defer wg.Done()
			if err := op(client); err != nil {
				mu.Lock()
				failed[name] = err
				mu.Unlock()
			}
		}(name, client)
	}
	wg.Wait()
	return failed
}
