package notify

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	NewLog(log).Notify("ja: native")

	if got := buf.String(); !bytes.Contains([]byte(got), []byte("ja: native")) {
		t.Errorf("notice not logged: %q", got)
	}
}

func TestMultiFansOut(t *testing.T) {
	var got []string
	m := Multi{
		Func(func(msg string) { got = append(got, "a:"+msg) }),
		Func(func(msg string) { got = append(got, "b:"+msg) }),
	}

	m.Notify("hello")

	if len(got) != 2 || got[0] != "a:hello" || got[1] != "b:hello" {
		t.Errorf("unexpected fan-out: %v", got)
	}
}
