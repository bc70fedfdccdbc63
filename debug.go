//go:build !fanlog_release

package fanlog

// debugEnabled gates DLog, DLogf and DCheck. Build with -tags fanlog_release
// to compile them out.
const debugEnabled = true
