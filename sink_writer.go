package fanlog

import (
	"io"
	"os"
)

// WriterSink writes each line to an io.Writer with a single Write call. If
// the writer implements Lock and Unlock it is locked for the duration of the
// write, which lets several sinks or foreign code share one writer. If the
// writer implements Flush, UntilSent calls it.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink over w.
//
// Panics:
//   - if w is nil.
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		panic("fanlog: nil writer")
	}
	return &WriterSink{w: w}
}

// NewStderrSink creates a sink that writes every line straight to the
// process's standard error. Standard error is unbuffered, so UntilSent is a
// no-op.
func NewStderrSink() *WriterSink {
	return &WriterSink{w: os.Stderr}
}

// Send implements Sink.
func (s *WriterSink) Send(msg []byte) error {
	if lock, ok := s.w.(locker); ok {
		lock.Lock()
		defer lock.Unlock()
	}
	n, err := s.w.Write(msg)
	if err == nil && n < len(msg) {
		err = io.ErrShortWrite
	}
	return err
}

// UntilSent implements Sink.
func (s *WriterSink) UntilSent() {
	if f, ok := s.w.(flusher); ok {
		if lock, ok := s.w.(locker); ok {
			lock.Lock()
			defer lock.Unlock()
		}
		_ = f.Flush()
	}
}

// LogToStderr registers a standard error sink.
func (l *Logger) LogToStderr() {
	l.AddSink(NewStderrSink())
}

// LogToStderr registers a standard error sink with the Default logger.
func LogToStderr() {
	Default.LogToStderr()
}
