// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package descriptor defines the metadata captured when a class is declared as
// a pipeline operator or model primitive.
//
// Descriptors are plain values. They are built once by the declare package,
// checked by the validate package and then owned by the registry, which only
// ever hands out deep copies.
package descriptor
