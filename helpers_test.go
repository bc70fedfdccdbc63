package fanlog

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// event is one observable call on a recordingSink, or an abort.
type event struct {
	sink string
	op   string // "send", "flush" or "abort"
	msg  string
}

// recorder collects events from several sinks in the order they happened.
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) add(e event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event(nil), r.events...)
}

// sent returns the messages delivered to the named sink.
func (r *recorder) sent(sink string) []string {
	var out []string
	for _, e := range r.all() {
		if e.sink == sink && e.op == "send" {
			out = append(out, e.msg)
		}
	}
	return out
}

func (r *recorder) contains(substr string) bool {
	for _, e := range r.all() {
		if strings.Contains(e.msg, substr) {
			return true
		}
	}
	return false
}

// recordingSink is a Sink that reports every call to a shared recorder.
// When err is set, Send refuses the line with it.
type recordingSink struct {
	name string
	rec  *recorder
	err  error
}

func (s *recordingSink) Send(msg []byte) error {
	s.rec.add(event{sink: s.name, op: "send", msg: string(msg)})
	return s.err
}

func (s *recordingSink) UntilSent() {
	s.rec.add(event{sink: s.name, op: "flush"})
}

// fixedClock returns a clock that always reports 2024-03-05 07:08:09 UTC.
func fixedClock() func() time.Time {
	t := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)
	return func() time.Time { return t }
}

// newTestLogger returns a UTC, fixed-clock Logger with one recording sink
// named "a" and an abort function that records instead of terminating.
func newTestLogger(opts ...Option) (*Logger, *recorder) {
	rec := &recorder{}
	base := []Option{
		WithUTC(true),
		WithClock(fixedClock()),
		WithAbort(func() { rec.add(event{op: "abort"}) }),
		WithSinks(&recordingSink{name: "a", rec: rec}),
	}
	return New(append(base, opts...)...), rec
}

// chdir changes the working directory for the rest of the test and restores
// it on cleanup, like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
