// Package notify carries transient user-facing toasts from the stores to
// whatever is rendering them.
package notify

import (
	"fmt"
	"sync"
	"time"
)

// Level is the toast severity.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notification is a single toast.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier receives toasts. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// Func adapts a plain function to Notifier.
type Func func(Notification)

// Notify implements Notifier.
func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Successf, Errorf and Infof format a toast and send it to n.
func Successf(n Notifier, format string, args ...any) { send(n, Success, format, args...) }
func Errorf(n Notifier, format string, args ...any)   { send(n, Error, format, args...) }
func Infof(n Notifier, format string, args ...any)    { send(n, Info, format, args...) }

func send(n Notifier, lvl Level, format string, args ...any) {
	if n == nil {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	n.Notify(Notification{Level: lvl, Message: msg, At: time.Now()})
}

// Queue buffers notifications for a consumer that drains them on its own
// schedule (the TUI event loop). When the buffer is full the oldest
// notification is dropped.
type Queue struct {
	mu sync.Mutex
	ch chan Notification
}

// NewQueue returns a Queue holding at most size pending notifications.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Notification, size)}
}

// Notify implements Notifier.
func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- n:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C exposes the receive side for select loops.
func (q *Queue) C() <-chan Notification { return q.ch }

// Drain returns everything currently queued without blocking.
func (q *Queue) Drain() []Notification {
	var out []Notification
	for {
		select {
		case n := <-q.ch:
			out = append(out, n)
		default:
			return out
		}
	}
}

// Recorder keeps every notification. Useful in tests and for the CLI,
// which prints toasts after a command finishes.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.all = append(r.all, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}
