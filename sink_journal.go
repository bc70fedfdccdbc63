package fanlog

import (
	"bytes"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/pkg/errors"
)

// ErrJournalUnavailable is returned when the systemd journal socket cannot
// be reached.
var ErrJournalUnavailable = errors.New("fanlog: systemd journal is not available")

// JournalSink sends each line to systemd-journald with a priority derived
// from the line's level tag. journald receives every entry over a datagram
// socket as it is sent, so UntilSent is a no-op.
type JournalSink struct {
	identifier string
	send       func(message string, priority journal.Priority, vars map[string]string) error
}

// NewJournalSink creates a sink that tags entries with SYSLOG_IDENTIFIER
// set to identifier.
func NewJournalSink(identifier string) (*JournalSink, error) {
	if !journal.Enabled() {
		return nil, ErrJournalUnavailable
	}
	return &JournalSink{identifier: identifier, send: journal.Send}, nil
}

// Send implements Sink. The full line, prefix included and trailing newline
// removed, becomes the MESSAGE field.
func (s *JournalSink) Send(msg []byte) error {
	vars := map[string]string{}
	if s.identifier != "" {
		vars["SYSLOG_IDENTIFIER"] = s.identifier
	}
	text := string(bytes.TrimSuffix(msg, []byte{'\n'}))
	if err := s.send(text, journalPriority(msg), vars); err != nil {
		return errors.Wrap(err, "fanlog: journal send")
	}
	return nil
}

// UntilSent implements Sink.
func (s *JournalSink) UntilSent() {}

// journalPriority reads the level tag that follows the timestamp.
func journalPriority(msg []byte) journal.Priority {
	const tagOffset = len(timeLayout) + 1
	if len(msg) <= tagOffset {
		return journal.PriInfo
	}
	switch msg[tagOffset] {
	case 'F':
		return journal.PriCrit
	case 'E':
		return journal.PriErr
	case 'W':
		return journal.PriWarning
	case 'I':
		return journal.PriInfo
	}
	return journal.PriDebug
}

// LogToJournal registers a JournalSink. Nothing is registered when journald
// is unreachable.
func (l *Logger) LogToJournal(identifier string) error {
	s, err := NewJournalSink(identifier)
	if err != nil {
		return err
	}
	l.AddSink(s)
	return nil
}

// LogToJournal registers a JournalSink with the Default logger.
func LogToJournal(identifier string) error {
	return Default.LogToJournal(identifier)
}
