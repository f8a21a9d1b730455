// SPDX-License-Identifier: MPL-2.0

package config

import "testing"

func TestResolveSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Organization = "file-org"
	cfg.Bucket = "file-bucket"

	tests := []struct {
		name       string
		envOrg     string
		envBucket  string
		flagOrg    string
		flagBucket string
		want       Settings
	}{
		{
			name: "config defaults",
			want: Settings{Organization: "file-org", Bucket: "file-bucket"},
		},
		{
			name:      "env overrides config",
			envOrg:    "env-org",
			envBucket: "env-bucket",
			want:      Settings{Organization: "env-org", Bucket: "env-bucket"},
		},
		{
			name:       "flags override env",
			envOrg:     "env-org",
			envBucket:  "env-bucket",
			flagOrg:    "flag-org",
			flagBucket: "flag-bucket",
			want:       Settings{Organization: "flag-org", Bucket: "flag-bucket"},
		},
		{
			name:   "partial env override",
			envOrg: "env-org",
			want:   Settings{Organization: "env-org", Bucket: "file-bucket"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TIGSTACK_ORG", tt.envOrg)
			t.Setenv("TIGSTACK_BUCKET", tt.envBucket)

			got := ResolveSettings(cfg, tt.flagOrg, tt.flagBucket)
			if got != tt.want {
				t.Errorf("ResolveSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
