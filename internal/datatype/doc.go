// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package datatype describes the values that flow between pipeline operators.
//
// A DataType is either a primitive (string, integer, float, boolean) or a
// complex type identified by a fully qualified definition such as
// "studio9.library.albums.Album". Complex types may name parent types, which
// makes them assignable wherever one of their ancestors is expected, and may
// carry type arguments (e.g. list[Album]).
//
// The Table maps Go types to DataTypes so that operator signatures written in
// Go can be compared with the metadata an author declares.
package datatype
