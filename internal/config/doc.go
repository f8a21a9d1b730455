// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the tigstack configuration.
//
// Configuration is resolved from three layers: built-in defaults, an optional
// CUE config file validated against an embedded schema, and environment
// overrides (TIGSTACK_*). Run-scoped settings (organization, bucket) are
// resolved once per run via ResolveSettings and threaded explicitly through
// provisioning calls; they are never persisted outside generated artifacts.
package config
