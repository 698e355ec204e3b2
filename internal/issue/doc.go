// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for CLI failures: a short message
// with suggestions, optionally linked to a markdown catalog entry rendered
// with glamour.
package issue
