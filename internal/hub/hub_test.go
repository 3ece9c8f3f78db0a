package hub

import (
	"testing"
	"time"
)

func TestRegisterAndBroadcast(t *testing.T) {
	h := NewHub()

	c1 := &Client{PlayerID: "p1", Send: make(chan []byte, 16)}
	c2 := &Client{PlayerID: "p2", Send: make(chan []byte, 16)}
	c3 := &Client{PlayerID: "p3", Send: make(chan []byte, 16)}

	h.Register(c1)
	h.Register(c2)
	h.Register(c3)

	h.Broadcast([]byte(`{"type":"progressUpdate"}`))

	for _, c := range []*Client{c1, c2, c3} {
		select {
		case data := <-c.Send:
			if string(data) != `{"type":"progressUpdate"}` {
				t.Fatalf("unexpected message: %s", data)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("%s did not receive broadcast", c.PlayerID)
		}
	}
}

func TestSendTo(t *testing.T) {
	h := NewHub()

	c1 := &Client{PlayerID: "p1", Send: make(chan []byte, 16)}
	c2 := &Client{PlayerID: "p2", Send: make(chan []byte, 16)}
	h.Register(c1)
	h.Register(c2)

	if !h.SendTo("p1", []byte("hello")) {
		t.Fatal("SendTo should report true for a registered client")
	}

	select {
	case data := <-c1.Send:
		if string(data) != "hello" {
			t.Fatalf("unexpected message: %s", data)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("p1 did not receive message")
	}

	select {
	case <-c2.Send:
		t.Fatal("p2 should not receive a targeted message")
	default:
		// expected
	}

	if h.SendTo("ghost", []byte("hello")) {
		t.Error("SendTo should report false for an unknown client")
	}
}

func TestUnregister(t *testing.T) {
	h := NewHub()

	c1 := &Client{PlayerID: "p1", Send: make(chan []byte, 16)}
	c2 := &Client{PlayerID: "p2", Send: make(chan []byte, 16)}
	h.Register(c1)
	h.Register(c2)

	h.Unregister("p1")

	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}

	h.Broadcast([]byte("after"))
	select {
	case <-c1.Send:
		t.Fatal("unregistered client received broadcast")
	default:
		// expected
	}

	// The Send channel stays open: the connection owns its lifetime
	select {
	case c1.Send <- []byte("still open"):
	default:
		t.Fatal("send channel should remain usable")
	}
}

func TestUnregisterNonexistent(t *testing.T) {
	h := NewHub()
	// Should not panic
	h.Unregister("nonexistent")
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()

	// Channel with capacity 1
	c := &Client{PlayerID: "p1", Send: make(chan []byte, 1)}
	h.Register(c)

	// Fill the channel
	c.Send <- []byte("filler")

	// This should not block; the message is dropped instead
	h.Broadcast([]byte("overflow"))

	data := <-c.Send
	if string(data) != "filler" {
		t.Fatalf("expected filler, got: %s", data)
	}

	select {
	case <-c.Send:
		t.Fatal("should be empty after draining filler")
	default:
		// expected
	}
}
