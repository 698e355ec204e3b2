// SPDX-License-Identifier: MPL-2.0

// Package engine runs shell sessions. An Engine replays an optional script and
// then reads commands interactively, sending every line through the same
// tokenize and dispatch pipeline.
package engine
