package guard

import "sync"

// Bus is an in-process ActivitySource. Producers call Emit; the guard
// subscribes to it like any other source.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[Channel]map[uint64]func()
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[Channel]map[uint64]func())}
}

// Subscribe registers fn for events on ch. The returned function removes
// the registration and is safe to call more than once.
func (b *Bus) Subscribe(ch Channel, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.listeners[ch] == nil {
		b.listeners[ch] = make(map[uint64]func())
	}
	b.listeners[ch][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners[ch], id)
			if len(b.listeners[ch]) == 0 {
				delete(b.listeners, ch)
			}
		})
	}
}

// Emit delivers one event on ch to every current listener. Listeners run
// on the caller's goroutine, after the bus lock is released.
func (b *Bus) Emit(ch Channel) {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.listeners[ch]))
	for _, fn := range b.listeners[ch] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Listeners returns the number of listeners registered on ch.
func (b *Bus) Listeners(ch Channel) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[ch])
}

var _ ActivitySource = (*Bus)(nil)
