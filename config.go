package fanlog

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config describes a Logger deployment: the verbosity threshold and which
// sinks to register. It can be read from the [logging] table of a TOML file,
// bound to command-line flags, or both.
//
// Example TOML:
//
//	[logging]
//	verbosity = 1            # or "warning", "W", "V(2)"
//	stderr = true
//	files = ["app.log"]
//	journal = false
//	journal_identifier = "app"
//	utc = false
type Config struct {
	Verbosity         Severity
	Stderr            bool
	Files             []string
	Journal           bool
	JournalIdentifier string
	UTC               bool
}

// tomlConfig mirrors Config on disk. Verbosity accepts either an integer or
// a level name, so it is decoded loosely and converted afterwards.
type tomlConfig struct {
	Logging struct {
		Verbosity         interface{} `toml:"verbosity"`
		Stderr            bool        `toml:"stderr"`
		Files             []string    `toml:"files"`
		Journal           bool        `toml:"journal"`
		JournalIdentifier string      `toml:"journal_identifier"`
		UTC               bool        `toml:"utc"`
	} `toml:"logging"`
}

// LoadConfig reads the [logging] table of the TOML file at path. A missing
// verbosity key means INFO.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "fanlog: cannot read config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML data the way LoadConfig does.
func ParseConfig(data []byte) (Config, error) {
	var raw tomlConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Wrap(err, "fanlog: cannot parse TOML config")
	}
	c := Config{
		Stderr:            raw.Logging.Stderr,
		Files:             raw.Logging.Files,
		Journal:           raw.Logging.Journal,
		JournalIdentifier: raw.Logging.JournalIdentifier,
		UTC:               raw.Logging.UTC,
	}
	switch v := raw.Logging.Verbosity.(type) {
	case nil:
		c.Verbosity = INFO
	case int64:
		c.Verbosity = Severity(v)
	case string:
		s, err := ParseSeverity(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "fanlog: logging.verbosity")
		}
		c.Verbosity = s
	default:
		return Config{}, errors.Errorf("fanlog: logging.verbosity has unsupported type %T", v)
	}
	return c, nil
}

// AddFlags binds the configuration to fs:
//
//	--v                 verbosity threshold (name, tag or integer)
//	--log-file          file to log to, repeatable
//	--logtostderr       log to standard error
//	--log-journal       log to the systemd journal
//	--log-journal-id    SYSLOG_IDENTIFIER for journal entries
//	--log-utc           render timestamps in UTC
//
// The current field values become the flag defaults.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.Var(&c.Verbosity, "v", "log verbosity threshold: fatal, error, warning, info or a verbose level 1..n")
	fs.StringArrayVar(&c.Files, "log-file", c.Files, "write log lines to this file (repeatable)")
	fs.BoolVar(&c.Stderr, "logtostderr", c.Stderr, "write log lines to standard error")
	fs.BoolVar(&c.Journal, "log-journal", c.Journal, "write log lines to the systemd journal")
	fs.StringVar(&c.JournalIdentifier, "log-journal-id", c.JournalIdentifier, "SYSLOG_IDENTIFIER for journal entries")
	fs.BoolVar(&c.UTC, "log-utc", c.UTC, "render timestamps in UTC")
}

// Overlay returns c with every field whose flag was explicitly set on fs
// replaced by the value in flags. Use it to let command-line flags win over
// a configuration file.
func (c Config) Overlay(fs *pflag.FlagSet, flags Config) Config {
	out := c
	if fs.Changed("v") {
		out.Verbosity = flags.Verbosity
	}
	if fs.Changed("log-file") {
		out.Files = flags.Files
	}
	if fs.Changed("logtostderr") {
		out.Stderr = flags.Stderr
	}
	if fs.Changed("log-journal") {
		out.Journal = flags.Journal
	}
	if fs.Changed("log-journal-id") {
		out.JournalIdentifier = flags.JournalIdentifier
	}
	if fs.Changed("log-utc") {
		out.UTC = flags.UTC
	}
	return out
}

// Options returns the construction options the configuration implies.
func (c Config) Options() []Option {
	return []Option{WithVerbosity(c.Verbosity), WithUTC(c.UTC)}
}

// Apply sets l's verbosity threshold and registers the configured sinks in
// the order stderr, files, journal. Registration continues past failures;
// the first error is returned.
func (c Config) Apply(l *Logger) error {
	l.SetV(c.Verbosity)

	var first error
	if c.Stderr {
		l.LogToStderr()
	}
	for _, name := range c.Files {
		if err := l.LogToFile(name); err != nil && first == nil {
			first = err
		}
	}
	if c.Journal {
		if err := l.LogToJournal(c.JournalIdentifier); err != nil {
			l.Log(WARNING, "Cannot log to journal: ", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Set implements pflag.Value.
func (s *Severity) Set(text string) error {
	v, err := ParseSeverity(text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Type implements pflag.Value.
func (s *Severity) Type() string {
	return "severity"
}
