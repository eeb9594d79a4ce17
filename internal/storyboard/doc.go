// Package storyboard holds the session aggregate of the storyboard tool and
// the closed set of commands that change it.
//
// State is a plain value. Apply is a pure function from (state, command) to a
// new state; it never mutates its input, and every successfully applied
// command appends exactly one HistoryItem whose text comes from the Catalog.
// Store wraps a State with a clock and an id generator for callers that want
// a mutable holder.
package storyboard
