// Copyright (c) 2024 Neomantra Corp

//go:build !debug

package assertx

// Assert is a no-op in non-debug builds. Its arguments are still evaluated
// at the call site.
func Assert(cond bool, format string, args ...any) {}
