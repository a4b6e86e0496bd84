// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package manifest declares operators from HCL files instead of Go code.
//
// A manifest holds `operator` and `primitive` blocks. Each block names the Go
// class implementing it through the `class` attribute and carries the same
// metadata a Go declaration would: parameters with their conditions, inputs
// and outputs. Parsing is done in two phases. ParseFile turns a file into
// declarations and reports every structural problem as an hcl.Diagnostic
// pointing at the offending source range. Bind then resolves class names and
// data types and runs each declaration through the declare package, so that a
// manifest entry and a Go declaration go through exactly the same checks.
package manifest
