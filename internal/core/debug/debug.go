// Package debug holds contract assertions that only fire in builds tagged
// chillidebug. Release builds compile them to no-ops.
package debug

import "fmt"

// Assert panics with the formatted message when cond is false and the
// chillidebug tag is set.
func Assert(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf("chilli: "+format, args...))
	}
}
