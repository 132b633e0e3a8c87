package wsclient

import (
	"context"
	"testing"
	"time"
)

func TestManagerCreateAndOverwrite(t *testing.T) {
	m := NewManager(testLogger())

	first := m.CreateClient(context.Background(), "feed", "ws://127.0.0.1:0")
	second := m.CreateClient(context.Background(), "feed", "ws://127.0.0.1:0")

	got, ok := m.GetClient("feed")
	if !ok {
		t.Fatal("client not found after create")
	}
	if got == first || got != second {
		t.Fatal("duplicate name must be overwritten by the last created client")
	}

	if _, ok := m.GetClient("missing"); ok {
		t.Fatal("lookup of an unknown name succeeded")
	}
}

func TestManagerConnectAllIsolatesFailures(t *testing.T) {
	ts := echoServer(t)
	m := NewManager(testLogger())

	m.CreateClient(context.Background(), "good", wsURL(ts), WithLogger(testLogger()))
	m.CreateClient(context.Background(), "bad", "ws://127.0.0.1:1",
		WithLogger(testLogger()), WithDialTimeout(time.Second))
	t.Cleanup(func() { m.CloseAll() })

	failed := m.ConnectAll()
	if _, ok := failed["bad"]; !ok {
		t.Fatal("unreachable client missing from the failure map")
	}
	if err, ok := failed["good"]; ok {
		t.Fatalf("reachable client reported a failure: %v", err)
	}

	good, _ := m.GetClient("good")
	if !good.IsOpen() {
		t.Fatalf("good client state = %s, one client's failure must not block others", good.State())
	}
}

func TestManagerCloseAll(t *testing.T) {
	ts := echoServer(t)
	m := NewManager(testLogger())

	for _, name := range []string{"a", "b", "c"} {
		m.CreateClient(context.Background(), name, wsURL(ts), WithLogger(testLogger()))
	}
	if failed := m.ConnectAll(); len(failed) != 0 {
		t.Fatalf("connect all: %v", failed)
	}

	// One client is already closed before the bulk close.
	c, _ := m.GetClient("c")
	if err := c.CloseDefault(); err != nil {
		t.Fatalf("close c: %v", err)
	}

	if failed := m.CloseAll(); len(failed) != 0 {
		t.Fatalf("close all must not fail for already-closed clients: %v", failed)
	}

	for name, state := range m.ListClients() {
		if state != StatusClosed && state != StatusDisconnected {
			t.Fatalf("client %s state = %s after close all", name, state)
		}
	}
}

func TestManagerListClients(t *testing.T) {
	ts := echoServer(t)
	m := NewManager(testLogger())

	m.CreateClient(context.Background(), "open", wsURL(ts), WithLogger(testLogger()))
	m.CreateClient(context.Background(), "idle", "ws://127.0.0.1:0", WithLogger(testLogger()))

	open, _ := m.GetClient("open")
	if err := open.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { m.CloseAll() })

	states := m.ListClients()
	if len(states) != 2 {
		t.Fatalf("listed %d clients, want 2", len(states))
	}
	if states["open"] != StatusOpen {
		t.Fatalf("open client state = %s", states["open"])
	}
	if states["idle"] != StatusDisconnected {
		t.Fatalf("idle client state = %s", states["idle"])
	}
}
