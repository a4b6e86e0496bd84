// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package pipeline checks how registered operators are composed.
//
// A pipeline is a list of steps, each naming a pipeline operator, its
// parameter values and the step outputs that feed its inputs. Check resolves
// every step against the registry and returns the order in which the steps
// can run. Running them is left to the pipeline engine.
//
// Pipelines are written in HCL:
//
//	pipeline "holiday training set" {
//	  step "load" {
//	    operator = "select album"
//	    params   = { album = "albums/holidays" }
//	  }
//	  step "split" {
//	    operator = "split album"
//	    inputs   = { album = "load.album" }
//	  }
//	}
package pipeline
