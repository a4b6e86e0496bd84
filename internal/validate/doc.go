// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package validate is the validation engine for operator metadata.
//
// It answers three questions:
//
//  1. Is a declaration well formed on its own? (Descriptor)
//
//  2. Does a declaration agree with the Go class it describes? (Signature)
//     Input, output and parameter names must exist on the class's Apply and
//     Configure methods with matching types, and the class must expose the
//     capabilities its kind requires.
//
//  3. Does a supplied parameter value conform to its declaration?
//     (Parameter, Parameters) Type, allowed values and inclusive min/max
//     bounds are checked, with AND semantics across rules.
//
// Checks are pure: they never invoke operator code.
package validate
