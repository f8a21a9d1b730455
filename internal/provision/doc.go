// SPDX-License-Identifier: MPL-2.0

// Package provision generates the on-disk artifacts the stack runs from:
// secrets, collector configuration, and the compose descriptor.
//
// Every artifact carries an overwrite policy. Secrets and the static base
// configuration are created only when absent, so credentials survive
// re-runs and operator edits to the base config are preserved. Rendered
// artifacts that embed credentials or configuration values are regenerated
// on every run so they never drift from their inputs.
//
// The main entry point is the Provisioner:
//
//	p := provision.NewProvisioner(cfg, settings, prompter)
//	artifacts, err := p.Provision(ctx)
//	// artifacts reports what was created, preserved, or regenerated
package provision
