package wsclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderHistoryOrderAndKinds(t *testing.T) {
	forwarded := make([]any, 0, 3)
	rec := NewRecorder(func(message any) {
		forwarded = append(forwarded, message)
	}, 0)

	rec.Handle("hello")
	rec.Handle(map[string]any{"type": "x"})
	rec.Handle([]byte{0x01})

	history := rec.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i, kind := range []string{"text", "json", "binary"} {
		if history[i].Kind != kind {
			t.Fatalf("record %d kind = %s, want %s", i, history[i].Kind, kind)
		}
	}
	if history[0].Message != "hello" {
		t.Fatalf("record 0 message = %#v", history[0].Message)
	}
	if len(forwarded) != 3 {
		t.Fatalf("wrapped handler saw %d messages, want 3", len(forwarded))
	}

	stats := rec.Stats()
	if stats.Total != 3 || stats.ByKind["text"] != 1 || stats.ByKind["json"] != 1 || stats.ByKind["binary"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRecorderHistoryLimit(t *testing.T) {
	rec := NewRecorder(nil, 2)
	rec.Handle("one")
	rec.Handle("two")
	rec.Handle("three")

	history := rec.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Message != "two" || history[1].Message != "three" {
		t.Fatalf("oldest record must be dropped first, got %#v", history)
	}
}

func TestRecorderAuthState(t *testing.T) {
	rec := NewRecorder(nil, 0)
	if rec.Authenticated() {
		t.Fatal("recorder starts authenticated")
	}

	rec.Handle(map[string]any{"type": "auth_response", "success": true})
	if !rec.Authenticated() {
		t.Fatal("successful auth_response did not flip the flag")
	}

	rec.Handle(map[string]any{"type": "auth_response", "success": false})
	if rec.Authenticated() {
		t.Fatal("failed auth_response did not clear the flag")
	}
	if got := rec.Stats().Total; got != 2 {
		t.Fatalf("stats total = %d, want 2", got)
	}
}

func TestRecorderAuthenticateRequiresConnection(t *testing.T) {
	rec := NewRecorder(nil, 0)
	client := NewClient(context.Background(), "ws://127.0.0.1:0", WithLogger(testLogger()))
	if err := rec.Authenticate(client, "token"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("authenticate while disconnected = %v, want ErrNotConnected", err)
	}
}

func TestRecorderOverLoopback(t *testing.T) {
	ts := echoServer(t)
	client := NewClient(context.Background(), wsURL(ts), WithLogger(testLogger()))

	seen := make(chan any, 2)
	rec := NewRecorder(func(message any) { seen <- message }, 0)
	client.OnMessage(rec.Handle)

	if err := client.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.CloseDefault() })

	if err := rec.Authenticate(client, "loopback-token"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	select {
	case <-seen:
	case <-time.After(time.Second * 3):
		t.Fatal("echoed authenticate message never arrived")
	}

	history := rec.History()
	if len(history) != 1 || history[0].Kind != "json" {
		t.Fatalf("history = %#v", history)
	}
	m, ok := history[0].Message.(map[string]any)
	if !ok || m["type"] != "authenticate" || m["token"] != "loopback-token" {
		t.Fatalf("recorded message = %#v", history[0].Message)
	}
}
