// SPDX-License-Identifier: MPL-2.0

// Package installer sequences a full stack bring-up: ensure the container
// runtime exists, provision artifacts, start the services, and wait for
// the database to report healthy. Each step maps its failures to
// actionable errors so the command layer can render remediation hints.
package installer
