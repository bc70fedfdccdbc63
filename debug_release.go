//go:build fanlog_release

package fanlog

const debugEnabled = false
