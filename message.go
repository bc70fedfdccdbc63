package fanlog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// bufPool recycles message buffers. Sinks never retain the slice passed to
// Send, so a buffer can be reused as soon as dispatch returns.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// Message accumulates the text of one logging statement. It is open from
// construction until Send, which dispatches the line exactly once. A Message
// belongs to the goroutine that created it.
//
// A nil *Message is valid and every method on it is a no-op; that is what
// disabled statements get from At, AtIf and CheckAt.
type Message struct {
	l        *Logger
	severity Severity
	buf      *bytes.Buffer // nil once sent
}

// newMessage writes the line prefix "<timestamp> <tag> <file>:<line> ".
// skip is passed to runtime.Caller and must point at the user's frame.
func (l *Logger) newMessage(s Severity, skip int) *Message {
	now := l.now()
	if l.useUTC {
		now = now.UTC()
	} else {
		now = now.Local()
	}

	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	b.Grow(128)

	file, line := "???", 0
	if _, f, n, ok := runtime.Caller(skip); ok {
		file, line = f, n
	}
	writePrefix(b, now, s, file, line)

	return &Message{l: l, severity: s, buf: b}
}

// Severity returns the severity the message was created with.
func (m *Message) Severity() Severity {
	if m == nil {
		return INFO
	}
	return m.severity
}

// Append converts each argument to text and appends it verbatim, with no
// separator between arguments. Appending to a sent message is ignored.
func (m *Message) Append(args ...interface{}) *Message {
	if m == nil || m.buf == nil {
		return m
	}
	for _, a := range args {
		switch v := a.(type) {
		case string:
			m.buf.WriteString(v)
		case []byte:
			m.buf.Write(v)
		default:
			fmt.Fprint(m.buf, a)
		}
	}
	return m
}

// Appendf appends fmt.Sprintf(format, args...) without an intermediate
// string.
func (m *Message) Appendf(format string, args ...interface{}) *Message {
	if m == nil || m.buf == nil {
		return m
	}
	fmt.Fprintf(m.buf, format, args...)
	return m
}

// Send terminates the line with a newline and dispatches it to every sink of
// the Logger, blocking until each sink has flushed. A FATAL message aborts
// the process afterwards. Only the first call has an effect.
func (m *Message) Send() {
	if m == nil || m.buf == nil {
		return
	}
	b := m.buf
	m.buf = nil
	b.WriteByte('\n')
	m.l.dispatch(m.severity, b.Bytes())
	bufPool.Put(b)
}

// writePrefix writes "<timestamp> <tag> <basename>:<line> " to b.
func writePrefix(b *bytes.Buffer, t time.Time, s Severity, file string, line int) {
	var scratch [32]byte
	b.Write(t.AppendFormat(scratch[:0], timeLayout))
	b.WriteByte(' ')
	b.WriteString(s.Tag())
	b.WriteByte(' ')
	b.WriteString(filepath.Base(file))
	b.WriteByte(':')
	b.Write(strconv.AppendInt(scratch[:0], int64(line), 10))
	b.WriteByte(' ')
}
