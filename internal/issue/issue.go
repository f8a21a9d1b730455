// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	UnsupportedPlatformId Id = iota + 1
	EngineInstallFailedId
	ComposePluginMissingId
	StackStartFailedId
	HealthCheckTimeoutId
	PermissionDeniedId
	ConfigLoadFailedId
	ArtifactWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Unsupported platform!

tigstack could not map your operating system to a known package manager.

## Supported distributions:
- Debian / Ubuntu / Raspbian (apt)
- Fedora / RHEL / CentOS / Rocky / AlmaLinux (dnf)
- openSUSE / SLES (zypper)
- Arch Linux / Manjaro (pacman)

## Things you can try:
- Check the contents of /etc/os-release on your host
- Install docker or podman manually, then re-run:
~~~
$ tigstack up
~~~
  tigstack skips engine installation when one is already available.`,
	}

	engineInstallFailedIssue = &Issue{
		id: EngineInstallFailedId,
		mdMsg: `
# Container engine installation failed!

The package manager could not install a container engine. tigstack does not
retry across package managers.

## Things you can try:
- Re-run the failing install command manually to see the full output
- Check network connectivity and distribution repository configuration
- Install Docker following https://docs.docker.com/engine/install/
- Install Podman: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
- Re-run with verbose mode for more details:
~~~
$ tigstack --verbose up
~~~`,
	}

	composePluginMissingIssue = &Issue{
		id: ComposePluginMissingId,
		mdMsg: `
# Compose plugin not found!

A container engine is available but its compose plugin is not.

## Things you can try:
- Docker: install the docker-compose-plugin package
- Podman: install podman-compose or the docker compose plugin
- Verify with:
~~~
$ docker compose version
~~~`,
	}

	stackStartFailedIssue = &Issue{
		id: StackStartFailedId,
		mdMsg: `
# Stack failed to start!

The compose descriptor was rendered but the engine could not start the
services.

## Common causes:
- The engine daemon is not running
- A port in the descriptor is already bound on the host
- The host is a container or minimal VM without an init system, so the
  engine daemon cannot be managed by systemd

## Things you can try:
- Check the daemon: ` + "`systemctl status docker`" + `
- Inspect the rendered descriptor in the stack directory
- Check port usage: ` + "`ss -tlnp | grep -e 8086 -e 3000`" + ``,
	}

	healthCheckTimeoutIssue = &Issue{
		id: HealthCheckTimeoutId,
		mdMsg: `
# Database never reported healthy!

The stack was started but the time-series database did not report a passing
health status within the attempt budget.

## Things you can try:
- Inspect the database logs:
~~~
$ docker compose logs influxdb
~~~
- Increase the probe budget in your config file:
~~~cue
probe: {
  max_attempts: 60
  interval: "2s"
}
~~~
- Re-run ` + "`tigstack status`" + ` once the host settles; artifacts are
  preserved, so re-running is safe.`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Writing artifacts to a directory you don't own
- The container engine requires elevated permissions

## Things you can try:
- Check file/directory permissions on the stack directory
- Ensure you're in the docker group:
~~~
$ sudo usermod -aG docker $USER
~~~
- Use rootless containers with Podman`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the tigstack configuration file.

## Configuration file location:
- Linux: ~/.config/tigstack/config.cue

## Things you can try:
- Create a default configuration:
~~~
$ tigstack config init
~~~
- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
container_engine: "docker"
stack_dir: "/opt/tigstack"

probe: {
  max_attempts: 30
  interval: "2s"
}
~~~`,
	}

	artifactWriteFailedIssue = &Issue{
		id: ArtifactWriteFailedId,
		mdMsg: `
# Failed to write a stack artifact!

A credential, config file, or the compose descriptor could not be written.

## Things you can try:
- Check free disk space and directory permissions
- Remove a corrupted artifact and re-run; secrets that still exist are
  never regenerated, so a re-run only fills in what is missing`,
	}

	issues = map[Id]*Issue{
		unsupportedPlatformIssue.Id():  unsupportedPlatformIssue,
		engineInstallFailedIssue.Id():  engineInstallFailedIssue,
		composePluginMissingIssue.Id(): composePluginMissingIssue,
		stackStartFailedIssue.Id():     stackStartFailedIssue,
		healthCheckTimeoutIssue.Id():   healthCheckTimeoutIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		artifactWriteFailedIssue.Id():  artifactWriteFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
