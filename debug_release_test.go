//go:build fanlog_release

package fanlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDebugVariantsCompiledOut verifies that release builds drop DLog, DLogf
// and DCheck entirely, including a failing DCheck.
func TestDebugVariantsCompiledOut(t *testing.T) {
	l, rec := newTestLogger()
	l.DLog(INFO, "dlog")
	l.DLogf(INFO, "dlogf %d", 1)
	l.DCheck(false, "false", "dcheck")

	saved := Default
	defer func() { Default = saved }()
	Default = l
	DLog(INFO, "d")
	DLogf(INFO, "d %s", "x")
	DCheck(false, "d")

	assert.Empty(t, rec.all())
}
