// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

type (
	// telegrafBase is the static collector configuration: agent behavior
	// and host input plugins. It carries no credentials, so operators can
	// edit the generated file and their changes survive re-runs.
	telegrafBase struct {
		Agent  telegrafAgent  `toml:"agent"`
		Inputs telegrafInputs `toml:"inputs"`
	}

	telegrafAgent struct {
		Interval          string `toml:"interval"`
		RoundInterval     bool   `toml:"round_interval"`
		MetricBatchSize   int    `toml:"metric_batch_size"`
		MetricBufferLimit int    `toml:"metric_buffer_limit"`
		FlushInterval     string `toml:"flush_interval"`
		Hostname          string `toml:"hostname,omitempty"`
		OmitHostname      bool   `toml:"omit_hostname"`
	}

	telegrafInputs struct {
		CPU    []telegrafCPUInput  `toml:"cpu"`
		Mem    []struct{}          `toml:"mem"`
		Disk   []telegrafDiskInput `toml:"disk"`
		System []struct{}          `toml:"system"`
	}

	telegrafCPUInput struct {
		Percpu   bool `toml:"percpu"`
		Totalcpu bool `toml:"totalcpu"`
	}

	telegrafDiskInput struct {
		IgnoreFS []string `toml:"ignore_fs"`
	}

	// telegrafOutputs is the rendered output configuration. It embeds the
	// API token, so it is regenerated on every run and written with
	// owner-only permissions.
	telegrafOutputs struct {
		Outputs telegrafOutputsSection `toml:"outputs"`
	}

	telegrafOutputsSection struct {
		InfluxDBv2 []telegrafInfluxDBv2 `toml:"influxdb_v2"`
	}

	telegrafInfluxDBv2 struct {
		URLs         []string `toml:"urls"`
		Token        string   `toml:"token"`
		Organization string   `toml:"organization"`
		Bucket       string   `toml:"bucket"`
	}
)

// renderTelegrafBase produces the static collector config.
func renderTelegrafBase() ([]byte, error) {
	cfg := telegrafBase{
		Agent: telegrafAgent{
			Interval:          "30s",
			RoundInterval:     true,
			MetricBatchSize:   1000,
			MetricBufferLimit: 10000,
			FlushInterval:     "10s",
			OmitHostname:      false,
		},
		Inputs: telegrafInputs{
			CPU:    []telegrafCPUInput{{Percpu: true, Totalcpu: true}},
			Mem:    []struct{}{{}},
			Disk:   []telegrafDiskInput{{IgnoreFS: []string{"tmpfs", "devtmpfs", "overlay", "squashfs"}}},
			System: []struct{}{{}},
		},
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render collector base config: %w", err)
	}
	return out, nil
}

// renderTelegrafOutputs produces the output config pointing the collector
// at the database service. The URL uses the compose service name, which
// resolves on the stack network.
func renderTelegrafOutputs(token, organization, bucket string) ([]byte, error) {
	cfg := telegrafOutputs{
		Outputs: telegrafOutputsSection{
			InfluxDBv2: []telegrafInfluxDBv2{{
				URLs:         []string{"http://influxdb:8086"},
				Token:        token,
				Organization: organization,
				Bucket:       bucket,
			}},
		},
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render collector output config: %w", err)
	}
	return out, nil
}
