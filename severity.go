package fanlog

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Tag returns the short label written into every line: F, E, W, I, or V(n)
// for a verbose level.
func (s Severity) Tag() string {
	switch s {
	case FATAL:
		return "F"
	case ERROR:
		return "E"
	case WARNING:
		return "W"
	case INFO:
		return "I"
	}
	return "V(" + strconv.Itoa(int(s)) + ")"
}

func (s Severity) String() string {
	switch s {
	case FATAL:
		return "FATAL"
	case ERROR:
		return "ERROR"
	case WARNING:
		return "WARNING"
	case INFO:
		return "INFO"
	}
	return "V(" + strconv.Itoa(int(s)) + ")"
}

// ParseSeverity converts a level name (fatal, error, warning, warn, info), a
// tag (F, E, W, I, V(n)) or a plain integer into a Severity. Matching is
// case-insensitive.
func ParseSeverity(text string) (Severity, error) {
	t := strings.ToUpper(strings.TrimSpace(text))
	switch t {
	case "FATAL", "F":
		return FATAL, nil
	case "ERROR", "E":
		return ERROR, nil
	case "WARNING", "WARN", "W":
		return WARNING, nil
	case "INFO", "I":
		return INFO, nil
	}
	if strings.HasPrefix(t, "V(") && strings.HasSuffix(t, ")") {
		t = t[2 : len(t)-1]
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return INFO, errors.Errorf("fanlog: unknown severity %q", text)
	}
	return Severity(n), nil
}

// Enabled reports whether a message of severity s would be built, that is
// whether s <= V(). It performs a single atomic load and never allocates, so
// call sites can guard expensive argument evaluation with it.
func (l *Logger) Enabled(s Severity) bool {
	return int64(s) <= l.v.Load()
}

// V returns the current verbosity threshold.
func (l *Logger) V() Severity {
	return Severity(l.v.Load())
}

// SetV changes the verbosity threshold at runtime. Safe for concurrent use;
// a racing log call sees either the old or the new value.
func (l *Logger) SetV(v Severity) {
	l.v.Store(int64(v))
}
