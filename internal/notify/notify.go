// Package notify delivers user-facing notifications.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a human-readable message for the user.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to a Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Writer prints notifications, one per line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Notifier that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Notify(n Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})
