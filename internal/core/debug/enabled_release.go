//go:build !chillidebug

package debug

const Enabled = false
