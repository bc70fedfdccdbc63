//go:build !unix

package fanlog

import "os"

// abortProcess exits with the status the C runtime uses for abort().
func abortProcess() {
	os.Exit(3)
}
