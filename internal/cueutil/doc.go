// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides helpers for working with CUE configuration files:
// error formatting with JSON-path context and input size guards.
package cueutil
