// SPDX-License-Identifier: MPL-2.0

package config

import "os"

// Settings are the run-scoped inputs threaded through a provisioning run.
// They are resolved once at startup and never written back to the config
// file; the only durable record is the generated artifacts themselves.
type Settings struct {
	Organization string
	Bucket       string
}

// ResolveSettings resolves organization and bucket for this run.
// Precedence, highest first: explicit flag values, TIGSTACK_ORG /
// TIGSTACK_BUCKET environment variables, config file defaults.
func ResolveSettings(cfg *Config, flagOrg, flagBucket string) Settings {
	s := Settings{
		Organization: cfg.Organization,
		Bucket:       cfg.Bucket,
	}

	if env := os.Getenv("TIGSTACK_ORG"); env != "" {
		s.Organization = env
	}
	if env := os.Getenv("TIGSTACK_BUCKET"); env != "" {
		s.Bucket = env
	}

	if flagOrg != "" {
		s.Organization = flagOrg
	}
	if flagBucket != "" {
		s.Bucket = flagBucket
	}

	return s
}
