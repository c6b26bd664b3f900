package guard

import "testing"

func TestBusEmitAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var a, b int

	unsubA := bus.Subscribe(KeyPress, func() { a++ })
	bus.Subscribe(KeyPress, func() { b++ })
	bus.Subscribe(Scroll, func() { t.Error("scroll listener called for key-press") })

	bus.Emit(KeyPress)
	if a != 1 || b != 1 {
		t.Fatalf("expected both listeners called once, got a=%d b=%d", a, b)
	}

	unsubA()
	unsubA()
	bus.Emit(KeyPress)
	if a != 1 || b != 2 {
		t.Errorf("expected a=1 b=2 after unsubscribe, got a=%d b=%d", a, b)
	}
	if n := bus.Listeners(KeyPress); n != 1 {
		t.Errorf("expected 1 key-press listener, got %d", n)
	}
}

func TestBusListenerMayUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	var unsub func()
	unsub = bus.Subscribe(TouchStart, func() {
		calls++
		unsub()
	})

	bus.Emit(TouchStart)
	bus.Emit(TouchStart)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if n := bus.Listeners(TouchStart); n != 0 {
		t.Errorf("expected no listeners, got %d", n)
	}
}
