package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
)

// RawLogger dumps raw byte records, such as encoded motion frames or flash
// reads, for debugging.
type RawLogger interface {
	Log(label string, data []byte)
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRaw returns a RawLogger writing hex dumps to w. A nil w discards
// everything.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return nopRaw{}
	}
	return &rawLogger{w: w}
}

func (l *rawLogger) Log(label string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s (%d bytes)\n", label, len(data))
	d := hex.Dumper(l.w)
	_, _ = d.Write(data)
	_ = d.Close()
}

type nopRaw struct{}

func (nopRaw) Log(string, []byte) {}
