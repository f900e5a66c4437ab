// Package notify is the global sink for user-facing error notifications.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Notifier surfaces a message to the user.
type Notifier interface {
	Error(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Error(msg string) { f(msg) }

// Console prints notifications to a terminal stream, one per line.
type Console struct {
	mu sync.Mutex
	W  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.W, "error: %s\n", msg)
}

// Log routes notifications to a structured logger. Used by daemons that have
// no terminal attached.
type Log struct {
	L *slog.Logger
}

func (l Log) Error(msg string) {
	l.L.Error("notification", "message", msg)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(string) {})
