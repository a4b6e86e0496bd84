// Package app contains the core application logic. It owns the operator
// registry of one process, registers the compiled-in modules, binds HCL
// manifests to their classes and exposes the result to entrypoints such as
// the CLI.
package app
