// Package fanlog provides an in-process logging core: call sites emit
// severity-tagged messages that are formatted once and fanned out to every
// registered sink.
//
// Key features:
//   - Severity levels FATAL, ERROR, WARNING, INFO and unbounded verbose levels V(n)
//   - A verbosity threshold checked before any formatting happens
//   - An append-only sink registry with two-phase dispatch (send to all, then flush all)
//   - Total ordering of lines across goroutines through a single dispatch lock
//   - Checks that always escalate to FATAL and abort the process after delivery
//   - File, standard error and systemd journal sinks
//
// Every line has the shape
//
//	YYYYMMDD HH:MM:SS <LEVEL> <basename>:<line> <message text>
//
// where LEVEL is F, E, W, I or V(n).
package fanlog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// New creates a Logger with no sinks and a verbosity threshold of INFO,
// then applies the provided options.
//
// Example:
//
//	logger := fanlog.New(fanlog.WithVerbosity(2), fanlog.WithUTC(true))
//	logger.LogToStderr()
//	logger.Log(fanlog.INFO, "listening on ", addr)
func New(opts ...Option) *Logger {
	l := &Logger{
		now:     time.Now,
		abort:   abortProcess,
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithVerbosity returns an Option that sets the initial verbosity threshold.
func WithVerbosity(v Severity) Option {
	return func(l *Logger) {
		l.SetV(v)
	}
}

// WithUTC returns an Option that renders timestamps in UTC if set to true,
// or in the local time zone if false.
func WithUTC(utc bool) Option {
	return func(l *Logger) {
		l.useUTC = utc
	}
}

// WithClock returns an Option that replaces the clock used to timestamp
// messages. A nil clock is ignored.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithAbort returns an Option that replaces the function called after a FATAL
// message has been delivered and flushed to every sink. The function runs
// while the dispatch lock is held. The default terminates the process
// abort-style; replacements used in tests may return, in which case the
// lock is released and logging continues. A nil function is ignored.
func WithAbort(abort func()) Option {
	return func(l *Logger) {
		if abort != nil {
			l.abort = abort
		}
	}
}

// WithMetrics returns an Option that registers the Logger's counters with reg.
//
// Panics:
//   - if the counters cannot be registered, e.g. because another Logger
//     already registered them with the same registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(l *Logger) {
		if err := l.metrics.register(reg); err != nil {
			panic("fanlog: cannot register metrics: " + err.Error())
		}
	}
}

// WithSinks returns an Option that registers sinks in the given order.
func WithSinks(sinks ...Sink) Option {
	return func(l *Logger) {
		for _, s := range sinks {
			l.AddSink(s)
		}
	}
}

// AddSink appends a sink to the registry. Registration is permanent: the
// sink receives every message dispatched after AddSink returns, for the
// lifetime of the Logger. A nil sink is ignored.
func (l *Logger) AddSink(s Sink) {
	if s == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Dropped returns how many lines sinks have refused to emit since the Logger
// was created.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// dispatch delivers msg to every registered sink under the registry lock:
// first Send to each sink in registration order, then UntilSent to each sink
// in the same order. Holding the lock for both phases means one goroutine's
// line is sent and flushed everywhere before another dispatch starts.
//
// For a FATAL message the abort function runs before the lock is released,
// so no other goroutine can dispatch between the fatal line and termination.
// This is intentional.
//
// A sink must not log through the same Logger from Send or UntilSent; the
// lock is not reentrant.
func (l *Logger) dispatch(s Severity, msg []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.metrics.messages.WithLabelValues(levelLabel(s)).Inc()
	for _, sink := range l.sinks {
		if err := sink.Send(msg); err != nil {
			l.dropped.Add(1)
			l.metrics.sendFailures.Inc()
		}
	}
	for _, sink := range l.sinks {
		sink.UntilSent()
	}
	if s == FATAL {
		l.abort()
	}
}

// At returns an open Message of severity s, or nil when s is above the
// verbosity threshold. All Message methods are no-ops on nil, so a disabled
// statement costs one atomic load and formats nothing. The caller must call
// Send exactly once, usually with defer:
//
//	m := logger.At(fanlog.INFO)
//	defer m.Send()
//	m.Append("loaded ", n, " zones")
func (l *Logger) At(s Severity) *Message {
	if !l.Enabled(s) {
		return nil
	}
	return l.newMessage(s, 2)
}

// AtIf is At that additionally requires cond to hold.
func (l *Logger) AtIf(s Severity, cond bool) *Message {
	if !l.Enabled(s) || !cond {
		return nil
	}
	return l.newMessage(s, 2)
}

// CheckAt returns nil when cond holds. Otherwise it returns an open FATAL
// Message that already contains "Check failed: <condText> ". Checks ignore
// the verbosity threshold; sending the Message aborts the process.
func (l *Logger) CheckAt(cond bool, condText string) *Message {
	if cond {
		return nil
	}
	return l.newCheck(condText, 2)
}

// Log builds and dispatches one message of severity s if it passes the
// verbosity gate. The arguments are converted to text and concatenated with
// no separator. An optional Caller argument may be provided first to skip
// wrapper frames when capturing the source location.
//
// Example:
//
//	logger.Log(fanlog.WARNING, "retrying ", host, " in ", delay)
//	logger.Log(fanlog.INFO, fanlog.Caller(1), "message from a wrapper")
func (l *Logger) Log(s Severity, args ...interface{}) {
	if !l.Enabled(s) {
		return
	}
	l.log(s, 3, args)
}

// Logf is Log with fmt.Sprintf formatting. It has no Caller form.
func (l *Logger) Logf(s Severity, format string, args ...interface{}) {
	if !l.Enabled(s) {
		return
	}
	l.newMessage(s, 2).Appendf(format, args...).Send()
}

// LogIf is Log that additionally requires cond to hold.
func (l *Logger) LogIf(s Severity, cond bool, args ...interface{}) {
	if !l.Enabled(s) || !cond {
		return
	}
	l.log(s, 3, args)
}

// LogIfFalse is Log that requires cond to be false.
func (l *Logger) LogIfFalse(s Severity, cond bool, args ...interface{}) {
	if !l.Enabled(s) || cond {
		return
	}
	l.log(s, 3, args)
}

// Check does nothing when cond holds. Otherwise it dispatches a FATAL line
// "Check failed: <condText> <args>" to every sink and aborts the process.
// Go has no access to the source text of an expression, so the caller
// passes it as condText.
//
// Example:
//
//	logger.Check(n >= 0, "n >= 0", "n=", n)
func (l *Logger) Check(cond bool, condText string, args ...interface{}) {
	if cond {
		return
	}
	l.newCheck(condText, 2).Append(args...).Send()
}

// Checkf is Check with fmt.Sprintf formatting of the trailing text.
func (l *Logger) Checkf(cond bool, condText, format string, args ...interface{}) {
	if cond {
		return
	}
	l.newCheck(condText, 2).Appendf(format, args...).Send()
}

// DLog is Log in debug builds and compiles to nothing when built with the
// fanlog_release tag.
func (l *Logger) DLog(s Severity, args ...interface{}) {
	if !debugEnabled || !l.Enabled(s) {
		return
	}
	l.log(s, 3, args)
}

// DLogf is Logf in debug builds and nothing in release builds.
func (l *Logger) DLogf(s Severity, format string, args ...interface{}) {
	if !debugEnabled || !l.Enabled(s) {
		return
	}
	l.newMessage(s, 2).Appendf(format, args...).Send()
}

// DCheck is Check in debug builds and nothing in release builds.
func (l *Logger) DCheck(cond bool, condText string, args ...interface{}) {
	if !debugEnabled || cond {
		return
	}
	l.newCheck(condText, 2).Append(args...).Send()
}

// log handles the optional leading Caller argument, then builds and sends the
// message. skip counts the frames between the user's call and newMessage.
func (l *Logger) log(s Severity, skip int, args []interface{}) {
	if len(args) > 0 {
		if depth, ok := args[0].(Caller); ok {
			d := int(depth)
			if d < 0 {
				d = 0
			} else if d > 99 {
				d = 99
			}
			skip += d
			args = args[1:]
		}
	}
	l.newMessage(s, skip).Append(args...).Send()
}

func (l *Logger) newCheck(condText string, skip int) *Message {
	m := l.newMessage(FATAL, skip+1)
	m.buf.WriteString(checkPrefix)
	m.buf.WriteString(condText)
	m.buf.WriteByte(' ')
	return m
}

// Enabled reports whether the Default logger would build a message of
// severity s.
func Enabled(s Severity) bool {
	return Default.Enabled(s)
}

// V returns the verbosity threshold of the Default logger.
func V() Severity {
	return Default.V()
}

// SetV changes the verbosity threshold of the Default logger.
func SetV(v Severity) {
	Default.SetV(v)
}

// AddSink registers a sink with the Default logger.
func AddSink(s Sink) {
	Default.AddSink(s)
}

// Dropped returns the number of lines the Default logger's sinks refused.
func Dropped() uint64 {
	return Default.Dropped()
}

// At returns an open Message on the Default logger, or nil when disabled.
func At(s Severity) *Message {
	if !Default.Enabled(s) {
		return nil
	}
	return Default.newMessage(s, 2)
}

// AtIf returns an open Message on the Default logger when s is enabled and
// cond holds.
func AtIf(s Severity, cond bool) *Message {
	if !Default.Enabled(s) || !cond {
		return nil
	}
	return Default.newMessage(s, 2)
}

// CheckAt returns an open FATAL Message on the Default logger when cond is false.
func CheckAt(cond bool, condText string) *Message {
	if cond {
		return nil
	}
	return Default.newCheck(condText, 2)
}

// Log logs a message using the Default logger.
// An optional Caller argument may be provided as the first parameter.
func Log(s Severity, args ...interface{}) {
	if !Default.Enabled(s) {
		return
	}
	Default.log(s, 3, args)
}

// Logf logs a formatted message using the Default logger.
func Logf(s Severity, format string, args ...interface{}) {
	if !Default.Enabled(s) {
		return
	}
	Default.newMessage(s, 2).Appendf(format, args...).Send()
}

// LogIf logs a message using the Default logger if cond holds.
func LogIf(s Severity, cond bool, args ...interface{}) {
	if !Default.Enabled(s) || !cond {
		return
	}
	Default.log(s, 3, args)
}

// LogIfFalse logs a message using the Default logger if cond is false.
func LogIfFalse(s Severity, cond bool, args ...interface{}) {
	if !Default.Enabled(s) || cond {
		return
	}
	Default.log(s, 3, args)
}

// Check aborts the process through the Default logger when cond is false.
func Check(cond bool, condText string, args ...interface{}) {
	if cond {
		return
	}
	Default.newCheck(condText, 2).Append(args...).Send()
}

// Checkf is Check with a formatted trailing text.
func Checkf(cond bool, condText, format string, args ...interface{}) {
	if cond {
		return
	}
	Default.newCheck(condText, 2).Appendf(format, args...).Send()
}

// DLog logs through the Default logger in debug builds only.
func DLog(s Severity, args ...interface{}) {
	if !debugEnabled || !Default.Enabled(s) {
		return
	}
	Default.log(s, 3, args)
}

// DLogf logs a formatted message through the Default logger in debug builds only.
func DLogf(s Severity, format string, args ...interface{}) {
	if !debugEnabled || !Default.Enabled(s) {
		return
	}
	Default.newMessage(s, 2).Appendf(format, args...).Send()
}

// DCheck checks through the Default logger in debug builds only.
func DCheck(cond bool, condText string, args ...interface{}) {
	if !debugEnabled || cond {
		return
	}
	Default.newCheck(condText, 2).Append(args...).Send()
}
