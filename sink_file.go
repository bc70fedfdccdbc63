package fanlog

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// ErrSinkUnavailable is returned by Send on a sink whose backing resource
// could not be opened or has been closed.
var ErrSinkUnavailable = errors.New("fanlog: sink has no backing store")

// FileSink writes lines to a file through a buffer. Send calls are
// serialized by the sink's own lock, independent of the Logger's dispatch
// lock; UntilSent flushes the buffer to the file.
type FileSink struct {
	path string
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer // nil when the file could not be opened or is closed
}

// NewFileSink resolves name against the current working directory (absolute
// names are used as is) and creates the file, truncating existing content.
//
// If the file cannot be created, NewFileSink still returns a usable sink
// together with the error. That sink has no backing store: every Send
// returns ErrSinkUnavailable and UntilSent does nothing.
func NewFileSink(name string) (*FileSink, error) {
	path := name
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return &FileSink{path: name}, errors.Wrap(err, "fanlog: cannot resolve working directory")
		}
		path = filepath.Join(wd, name)
	}

	s := &FileSink{path: path}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return s, errors.Wrapf(err, "fanlog: cannot create %s", path)
	}
	s.f = f
	s.w = bufio.NewWriter(f)
	return s, nil
}

// Path returns the resolved file name.
func (s *FileSink) Path() string {
	return s.path
}

// Send implements Sink.
func (s *FileSink) Send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return ErrSinkUnavailable
	}
	_, err := s.w.Write(msg)
	return err
}

// UntilSent implements Sink. Flush errors are not reported; a failed write
// surfaces on the next Send through the buffered writer's sticky error.
func (s *FileSink) UntilSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return
	}
	_ = s.w.Flush()
}

// Close flushes and closes the file. The sink stays registered; later sends
// return ErrSinkUnavailable. Loggers never call Close themselves.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	err := s.w.Flush()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.w = nil
	s.f = nil
	return err
}

// LogToFile creates a FileSink for name and registers it. When the file
// cannot be created, a WARNING "Cannot create <path>" goes to the sinks that
// are already registered, the non-functional sink is registered anyway so
// its refused lines show up in Dropped, and the error is returned.
func (l *Logger) LogToFile(name string) error {
	s, err := NewFileSink(name)
	if err != nil {
		l.Log(WARNING, "Cannot create ", s.Path(), ": ", errors.Cause(err))
	}
	l.AddSink(s)
	return err
}

// LogToFile registers a file sink with the Default logger.
func LogToFile(name string) error {
	return Default.LogToFile(name)
}
