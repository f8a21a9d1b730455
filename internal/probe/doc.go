// SPDX-License-Identifier: MPL-2.0

// Package probe polls service endpoints until they report ready.
//
// The prober is deliberately simple: a fixed interval between attempts, no
// backoff, and a hard attempt cap. Connection errors count as failed
// attempts, since a service that is still booting refuses connections long
// before it serves HTTP.
package probe
