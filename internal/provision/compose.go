// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"fmt"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"

	"gopkg.in/yaml.v3"
)

// DescriptorFileName is the compose descriptor written into the stack dir.
const DescriptorFileName = "docker-compose.yml"

const (
	networkName = "tigstack"

	secretAdminPassword = "influxdb-admin-password"
	secretAdminToken    = "influxdb-admin-token"
)

type (
	composeFile struct {
		Services map[string]composeService `yaml:"services"`
		Volumes  map[string]*composeVolume `yaml:"volumes"`
		Networks map[string]*composeVolume `yaml:"networks"`
		Secrets  map[string]composeSecret  `yaml:"secrets"`
	}

	composeService struct {
		Image       string            `yaml:"image"`
		Restart     string            `yaml:"restart"`
		Command     []string          `yaml:"command,omitempty"`
		Ports       []string          `yaml:"ports,omitempty"`
		Environment map[string]string `yaml:"environment,omitempty"`
		Volumes     []string          `yaml:"volumes,omitempty"`
		Networks    []string          `yaml:"networks"`
		Secrets     []string          `yaml:"secrets,omitempty"`
		DependsOn   []string          `yaml:"depends_on,omitempty"`
	}

	// composeVolume covers named volumes and networks that take no
	// options; it marshals to an empty value.
	composeVolume struct{}

	composeSecret struct {
		File string `yaml:"file"`
	}
)

// renderDescriptor produces the compose descriptor for the three services.
// Credentials never appear inline: the database bootstraps from file-based
// secrets and the collector reads its rendered config from a bind mount.
func renderDescriptor(cfg *config.Config, settings config.Settings) ([]byte, error) {
	doc := composeFile{
		Services: map[string]composeService{
			"influxdb": {
				Image:   cfg.Images.InfluxDB,
				Restart: "unless-stopped",
				Ports:   []string{fmt.Sprintf("%d:8086", cfg.Ports.Database)},
				Environment: map[string]string{
					"DOCKER_INFLUXDB_INIT_MODE":             "setup",
					"DOCKER_INFLUXDB_INIT_USERNAME":         "admin",
					"DOCKER_INFLUXDB_INIT_PASSWORD_FILE":    "/run/secrets/" + secretAdminPassword,
					"DOCKER_INFLUXDB_INIT_ORG":              settings.Organization,
					"DOCKER_INFLUXDB_INIT_BUCKET":           settings.Bucket,
					"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN_FILE": "/run/secrets/" + secretAdminToken,
				},
				Volumes: []string{
					"influxdb-data:/var/lib/influxdb2",
					"influxdb-config:/etc/influxdb2",
				},
				Networks: []string{networkName},
				Secrets:  []string{secretAdminPassword, secretAdminToken},
			},
			"grafana": {
				Image:   cfg.Images.Grafana,
				Restart: "unless-stopped",
				Ports:   []string{fmt.Sprintf("%d:3000", cfg.Ports.Dashboard)},
				Volumes: []string{
					"grafana-data:/var/lib/grafana",
				},
				Networks:  []string{networkName},
				DependsOn: []string{"influxdb"},
			},
			"telegraf": {
				Image:   cfg.Images.Telegraf,
				Restart: "unless-stopped",
				Command: []string{
					"--config", "/etc/telegraf/telegraf.conf",
					"--config-directory", "/etc/telegraf/telegraf.d",
				},
				Volumes: []string{
					"./telegraf:/etc/telegraf:ro",
				},
				Networks:  []string{networkName},
				DependsOn: []string{"influxdb"},
			},
		},
		Volumes: map[string]*composeVolume{
			"influxdb-data":   nil,
			"influxdb-config": nil,
			"grafana-data":    nil,
		},
		Networks: map[string]*composeVolume{
			networkName: nil,
		},
		Secrets: map[string]composeSecret{
			secretAdminPassword: {File: "./secrets/" + secretAdminPassword},
			secretAdminToken:    {File: "./secrets/" + secretAdminToken},
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render stack descriptor: %w", err)
	}
	return out, nil
}
