package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, srv
}

// readEvents collects SSE frames as "event|data" strings
func readEvents(resp *http.Response) <-chan string {
	events := make(chan string)
	go func() {
		defer close(events)
		reader := bufio.NewReader(resp.Body)
		var name string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				events <- name + "|" + strings.TrimPrefix(line, "data: ")
			}
		}
	}()
	return events
}

func next(t *testing.T, events <-chan string) string {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("stream closed before event")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ""
}

func TestHubBroadcast(t *testing.T) {
	h, srv := startHub(t)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %s", ct)
	}

	waitFor(t, func() bool { return h.ClientCount() == 1 })
	events := readEvents(resp)

	h.Broadcast("graph_colored", "g1", map[string]int{"colored": 3})

	ev := next(t, events)
	if ev != `graph_colored|{"graph_id":"g1","payload":{"colored":3}}` {
		t.Errorf("unexpected event %q", ev)
	}
}

func TestHubGraphFilter(t *testing.T) {
	h, srv := startHub(t)

	resp, err := http.Get(srv.URL + "?graph=g2")
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer resp.Body.Close()
	waitFor(t, func() bool { return h.ClientCount() == 1 })
	events := readEvents(resp)

	h.Broadcast("graph_colored", "g1", nil)
	h.Broadcast("graph_deleted", "g2", nil)

	ev := next(t, events)
	if ev != `graph_deleted|{"graph_id":"g2"}` {
		t.Errorf("expected only the g2 event, got %q", ev)
	}
}

func TestHubEventIDsIncrease(t *testing.T) {
	h := New(nil)
	a, err := h.encode(Message{Event: "graph_imported", GraphID: "g"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	b, err := h.encode(Message{Event: "graph_imported", GraphID: "g"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if !strings.HasPrefix(string(a.data), "id: 1\n") || !strings.HasPrefix(string(b.data), "id: 2\n") {
		t.Errorf("unexpected ids:\n%s\n%s", a.data, b.data)
	}
}

func TestHubStopClosesClients(t *testing.T) {
	h := New(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer resp.Body.Close()
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}
