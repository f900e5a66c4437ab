package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Error("device not found")
	c.Error("service error")

	want := "error: device not found\nerror: service error\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	n := Log{L: slog.New(slog.NewTextHandler(&buf, nil))}
	n.Error("please log in first")

	if out := buf.String(); !strings.Contains(out, "level=ERROR") || !strings.Contains(out, `message="please log in first"`) {
		t.Fatalf("log output = %q", out)
	}
}

func TestNotifierFunc(t *testing.T) {
	var got []string
	var n Notifier = NotifierFunc(func(msg string) { got = append(got, msg) })
	n.Error("a")
	Discard.Error("dropped")
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v", got)
	}
}
