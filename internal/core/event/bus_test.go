package event

import (
	"testing"

	"github.com/chilli/backbone/internal/core/debug"
)

func TestPushAndRead(t *testing.T) {
	b := NewBus()
	s := Register[KeyPressed](b)
	Push(b, KeyPressed{Key: "W"})

	if s.ActiveSize() != 1 {
		t.Fatalf("active = %d, want 1", s.ActiveSize())
	}
	r := NewReader(s)
	evs := r.Read()
	if len(evs) != 1 || evs[0].Key != "W" {
		t.Fatalf("read = %v", evs)
	}

	b.ClearAll()
	if s.ActiveSize() != 0 {
		t.Fatalf("active after clear = %d", s.ActiveSize())
	}
	if n := r.Len(); n != 0 {
		t.Fatalf("reader sees %d events after clear", n)
	}
}

func TestReaderWithoutSyncRereads(t *testing.T) {
	b := NewBus()
	r := Subscribe[WindowResize](b)
	Push(b, WindowResize{Width: 80, Height: 24})
	if len(r.Read()) != 1 || len(r.Read()) != 1 {
		t.Fatal("unsynced reader should re-observe the same event")
	}
	r.Sync()
	if r.Len() != 0 {
		t.Fatal("synced reader should see nothing")
	}
	Push(b, WindowResize{Width: 100, Height: 30})
	if evs := r.Drain(); len(evs) != 1 || evs[0].Width != 100 {
		t.Fatalf("drain = %v", evs)
	}
}

func TestReaderAcrossFrames(t *testing.T) {
	b := NewBus()
	r := Subscribe[KeyPressed](b)
	Push(b, KeyPressed{Key: "a"})
	Push(b, KeyPressed{Key: "b"})
	r.Drain()

	b.ClearAll()
	Push(b, KeyPressed{Key: "c"})

	evs := r.Drain()
	if len(evs) != 1 || evs[0].Key != "c" {
		t.Fatalf("next frame drain = %v", evs)
	}
}

func TestIndependentReaders(t *testing.T) {
	b := NewBus()
	r1 := Subscribe[WindowClose](b)
	r2 := Subscribe[WindowClose](b)
	Push(b, WindowClose{Window: 1})
	r1.Drain()
	if r2.Len() != 1 {
		t.Fatal("draining one reader consumed another's events")
	}
}

func TestPushUnregisteredDropped(t *testing.T) {
	if debug.Enabled {
		t.Skip("debug builds panic on unregistered push")
	}
	b := NewBus()
	Push(b, KeyReleased{Key: "x"})
	if _, ok := GetStorage[KeyReleased](b); ok {
		t.Fatal("push should not register a storage")
	}
	if b.Pending() != 0 {
		t.Fatal("unregistered event was stored")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	b := NewBus()
	s1 := Register[KeyPressed](b)
	Push(b, KeyPressed{})
	s2 := Register[KeyPressed](b)
	if s1 != s2 || s2.ActiveSize() != 1 {
		t.Fatal("second Register replaced the storage")
	}
}
