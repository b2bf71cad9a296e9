// Copyright (c) 2024 Neomantra Corp

//go:build debug

// Package assertx provides a debug-build-only invariant check. It compiles
// to nothing (see assertx_release.go) unless built with -tags debug, so
// production binaries never pay for it.
package assertx

import "fmt"

// Assert panics with msg if cond is false. Only present in debug builds.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
