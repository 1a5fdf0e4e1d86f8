package cli

import (
	"fmt"
	"sync"
)

// messageLog records callback messages. In text mode each message is also
// printed as it arrives. record may be called from timer goroutines.
type messageLog struct {
	mu     sync.Mutex
	f      *OutputFormatter
	prefix string
	msgs   []string
}

func newMessageLog(f *OutputFormatter, prefix string) *messageLog {
	return &messageLog{f: f, prefix: prefix}
}

func (l *messageLog) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.msgs = append(l.msgs, msg)
	if l.f.Format != "json" {
		fmt.Fprintln(l.f.Writer, l.prefix+msg)
	}
}

func (l *messageLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}
