// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package registry provides the central lookup table of declared operators.
//
// The Registry maps an operator name to its captured descriptor and the Go
// class that implements it. Entries are grouped into partitions: general
// pipeline operators and computer-vision model primitives are named
// independently.
//
// A Registry is populated once during application startup, through the
// declare package, and is read by the pipeline engine afterwards. Writers are
// serialised; readers load an immutable snapshot and never take a lock, so
// concurrent lookups from pipeline workers never wait on registration.
package registry
