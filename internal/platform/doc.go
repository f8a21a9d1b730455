// SPDX-License-Identifier: MPL-2.0

// Package platform detects the host Linux distribution and maps it to a
// package-manager capability set.
//
// Detection reads /etc/os-release once per run. The mapping is a flat lookup
// table keyed by the distribution ID (with ID_LIKE fallback); there is no
// fallback across package managers. Repo-setup steps are shell snippets
// executed through the embedded mvdan/sh interpreter.
package platform
