package slog

import (
	"bytes"
	stdslog "log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unkn0wn-root/replycache"
)

func TestSlogLoggerSortsAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))}

	l.Warn("retrying", replycache.Fields{"delay": "1s", "attempt": 1})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg=retrying attempt=1 delay=1s`)
}
