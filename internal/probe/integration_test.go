// SPDX-License-Identifier: MPL-2.0

package probe_test

import (
	"context"
	"testing"
	"time"

	"github.com/AskMe-CMI/TiG-Stack/internal/probe"
	"github.com/AskMe-CMI/TiG-Stack/internal/testutil"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestWaitForHealthy_AgainstRealDatabase boots the actual database image
// and drives the prober against its real /health and auth endpoints.
func TestWaitForHealthy_AgainstRealDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testutil.RequireEngine(t)

	const token = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "admin",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "integration-pass",
			"DOCKER_INFLUXDB_INIT_ORG":         "it-org",
			"DOCKER_INFLUXDB_INIT_BUCKET":      "it-bucket",
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": token,
		},
		WaitingFor: wait.ForListeningPort("8086/tcp"),
	}
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start database container: %v", err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	base, err := ctr.PortEndpoint(ctx, "8086/tcp", "http")
	if err != nil {
		t.Fatalf("failed to resolve container endpoint: %v", err)
	}

	p := probe.NewProber(nil, nil)
	res, err := p.WaitForHealthy(ctx, base+"/health", probe.HealthMatcher, 60, time.Second)
	if err != nil {
		t.Fatalf("database never reported healthy: %v", err)
	}
	if res.Status != probe.StatusPass {
		t.Errorf("status = %q, want pass", res.Status)
	}

	if err := p.VerifyAuth(ctx, base, token); err != nil {
		t.Errorf("auth probe with the bootstrap token failed: %v", err)
	}
	if err := p.VerifyAuth(ctx, base, "not-the-token"); err == nil {
		t.Error("auth probe with a bogus token should fail")
	}
}
