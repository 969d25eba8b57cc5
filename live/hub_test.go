package live

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(room string) *Client {
	return &Client{Send: make(chan []byte, 4), Room: room}
}

func TestHubBroadcastReachesRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := newTestClient("u1")
	c2 := newTestClient("u1")
	other := newTestClient("u2")
	hub.register <- c1
	hub.register <- c2
	hub.register <- other

	hub.BroadcastTripStatus("u1", "p1", "ongoing")

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Send:
			var ev StatusEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ev.PlanID != "p1" || ev.Status != "ongoing" {
				t.Errorf("event = %+v, want planId=p1 status=ongoing", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}

	select {
	case data := <-other.Send:
		t.Errorf("u2 received u1's event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}

	hub.unregister <- c1
	hub.unregister <- c2
	hub.unregister <- other
	hub.Stop()
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient("u1")
	hub.register <- c
	hub.unregister <- c

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Error("Send delivered data after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("Send not closed after unregister")
	}

	// broadcast to the emptied room must not block
	done := make(chan struct{})
	go func() {
		hub.BroadcastTripStatus("u1", "p1", "completed")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast to empty room blocked")
	}

	hub.Stop()
}

func TestHubBroadcastAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.BroadcastTripStatus("u1", "p1", "ongoing")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast after Stop blocked")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{Send: make(chan []byte), Room: "u1"} // unbuffered, never read
	hub.register <- slow

	hub.BroadcastTripStatus("u1", "p1", "ongoing")

	select {
	case _, ok := <-slow.Send:
		if ok {
			t.Error("slow client received data instead of being dropped")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client Send not closed")
	}

	hub.Stop()
}
