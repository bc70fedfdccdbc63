package fanlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Severity classifies a message. Lower values are more severe: FATAL, ERROR,
// WARNING and INFO are the named levels, and positive values are increasingly
// verbose custom levels.
type Severity int

// Sink receives fully formatted log lines. Both methods may be called from any
// goroutine.
type Sink interface {
	// Send accepts one complete, newline-terminated line. The slice must not
	// be retained after Send returns. A non-nil error means the line was not
	// emitted; the Logger counts it as dropped and never retries.
	Send(msg []byte) error

	// UntilSent blocks until every line previously passed to Send has
	// reached durable storage or output.
	UntilSent()
}

// Logger is a logging context: a verbosity threshold plus an ordered,
// append-only registry of sinks. One mutex guards the registry and
// serializes dispatch, so lines from concurrent goroutines never interleave.
type Logger struct {
	v       atomic.Int64     // Verbosity threshold; a message is built iff severity <= v.
	mu      sync.Mutex       // Guards sinks and serializes every dispatch.
	sinks   []Sink           // Registered sinks in registration order.
	dropped atomic.Uint64    // Lines a sink refused to emit.
	useUTC  bool             // If true, timestamps are rendered in UTC.
	now     func() time.Time // Clock used for message timestamps.
	abort   func()           // Terminates the process after a FATAL dispatch.
	metrics *metrics         // Prometheus collectors, never nil.
}

// Option defines a functional option for configuring a Logger during creation.
type Option func(*Logger)

// Caller is the number of extra stack frames to skip when capturing the source
// location of a log call. Wrappers pass it as the first argument to Log,
// LogIf and LogIfFalse.
type Caller int

// locker is implemented by writers that want to be locked during a write.
type locker interface {
	Lock()
	Unlock()
}

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}
