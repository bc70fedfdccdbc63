package fanlog

// Predefined severity levels. Lower values are more severe; every positive
// value is a verbose level rendered as V(n).
const (
	// FATAL messages are delivered to every sink and then abort the process.
	FATAL Severity = -3

	// ERROR denotes failures in specific operations or components.
	ERROR Severity = -2

	// WARNING signifies potential issues that don't disrupt core functionality.
	WARNING Severity = -1

	// INFO indicates normal operational messages. It is the default threshold.
	INFO Severity = 0
)

// timeLayout renders timestamps as YYYYMMDD HH:MM:SS.
const timeLayout = "20060102 15:04:05"

// checkPrefix starts every message produced by a failed check.
const checkPrefix = "Check failed: "

// Default is the process-wide Logger behind the package-level functions.
// It has no sinks until one of the LogTo* functions or AddSink is called,
// and its verbosity threshold starts at INFO.
var Default = New()
