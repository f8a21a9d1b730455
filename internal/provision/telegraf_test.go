// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestRenderTelegrafBase_IsValidTOMLWithoutCredentials(t *testing.T) {
	t.Parallel()

	raw, err := renderTelegrafBase()
	if err != nil {
		t.Fatalf("renderTelegrafBase() error: %v", err)
	}

	var parsed map[string]any
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("base config is not valid TOML: %v", err)
	}
	if _, ok := parsed["agent"]; !ok {
		t.Error("base config missing [agent] section")
	}
	inputs, ok := parsed["inputs"].(map[string]any)
	if !ok {
		t.Fatal("base config missing [inputs] sections")
	}
	for _, plugin := range []string{"cpu", "mem", "disk", "system"} {
		if _, ok := inputs[plugin]; !ok {
			t.Errorf("base config missing inputs.%s", plugin)
		}
	}
	if strings.Contains(string(raw), "token") {
		t.Error("base config must not reference credentials")
	}
}

func TestRenderTelegrafBase_AgentCollectionAndBatching(t *testing.T) {
	t.Parallel()

	raw, err := renderTelegrafBase()
	if err != nil {
		t.Fatalf("renderTelegrafBase() error: %v", err)
	}

	var parsed telegrafBase
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("base config is not valid TOML: %v", err)
	}

	if parsed.Agent.Interval != "30s" {
		t.Errorf("agent interval = %q, want %q", parsed.Agent.Interval, "30s")
	}
	if parsed.Agent.MetricBatchSize != 1000 {
		t.Errorf("metric_batch_size = %d, want 1000", parsed.Agent.MetricBatchSize)
	}
	if parsed.Agent.MetricBufferLimit != 10000 {
		t.Errorf("metric_buffer_limit = %d, want 10000", parsed.Agent.MetricBufferLimit)
	}
	if parsed.Agent.MetricBufferLimit < parsed.Agent.MetricBatchSize {
		t.Error("buffer limit must hold at least one full batch")
	}
}

func TestRenderTelegrafOutputs_EmbedsRunInputs(t *testing.T) {
	t.Parallel()

	raw, err := renderTelegrafOutputs("deadbeef", "acme", "metrics")
	if err != nil {
		t.Fatalf("renderTelegrafOutputs() error: %v", err)
	}

	var parsed telegrafOutputs
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("output config is not valid TOML: %v", err)
	}
	if len(parsed.Outputs.InfluxDBv2) != 1 {
		t.Fatalf("got %d influxdb_v2 outputs, want 1", len(parsed.Outputs.InfluxDBv2))
	}

	out := parsed.Outputs.InfluxDBv2[0]
	if out.Token != "deadbeef" || out.Organization != "acme" || out.Bucket != "metrics" {
		t.Errorf("output = %+v, want run inputs embedded", out)
	}
	if len(out.URLs) != 1 || !strings.Contains(out.URLs[0], "influxdb") {
		t.Errorf("output URLs = %v, want the database service name", out.URLs)
	}
}
