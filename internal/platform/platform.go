// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// osReleasePath is the canonical location of the distribution record.
// /usr/lib/os-release is the documented fallback for hosts without /etc.
var osReleaseFiles = []string{"/etc/os-release", "/usr/lib/os-release"}

// ErrUnsupportedPlatform is the sentinel error wrapped by UnsupportedPlatformError.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

type (
	// Info describes the detected distribution, parsed from os-release.
	Info struct {
		// ID is the lowercase distribution identifier (e.g., "ubuntu", "fedora").
		ID string
		// IDLike lists related distributions, used as a lookup fallback
		// (e.g., "linuxmint" carries ID_LIKE="ubuntu debian").
		IDLike []string
		// PrettyName is the human-readable distribution name for messages.
		PrettyName string
	}

	// PackageManager is the capability set for one package manager: how to
	// refresh metadata, how to install packages, which packages provide the
	// container engine and compose plugin, and an optional repo-setup script
	// run before the first install.
	PackageManager struct {
		// Name is the package manager binary (e.g., "apt-get", "dnf").
		Name string
		// UpdateCmd refreshes package metadata.
		UpdateCmd string
		// InstallCmd installs packages; package names are appended.
		InstallCmd string
		// EnginePackages provide the container engine.
		EnginePackages []string
		// ComposePackages provide the compose plugin.
		ComposePackages []string
		// RepoSetup is a shell snippet that configures third-party
		// repositories. Empty when the distro repos carry everything.
		RepoSetup string
	}

	// UnsupportedPlatformError is returned when no package manager is known
	// for the detected distribution. It is fatal; there is no fallback.
	UnsupportedPlatformError struct {
		Info Info
	}
)

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	name := e.Info.PrettyName
	if name == "" {
		name = e.Info.ID
	}
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("unsupported platform %q: no known package manager", name)
}

// Unwrap returns ErrUnsupportedPlatform for errors.Is() compatibility.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

// managers holds the capability set per package-manager family.
var managers = map[string]PackageManager{
	"apt": {
		Name:            "apt-get",
		UpdateCmd:       "apt-get update -y",
		InstallCmd:      "DEBIAN_FRONTEND=noninteractive apt-get install -y",
		EnginePackages:  []string{"docker.io"},
		ComposePackages: []string{"docker-compose-v2"},
		RepoSetup:       "apt-get install -y ca-certificates curl gnupg",
	},
	"dnf": {
		Name:            "dnf",
		UpdateCmd:       "dnf makecache --refresh",
		InstallCmd:      "dnf install -y",
		EnginePackages:  []string{"docker", "containerd"},
		ComposePackages: []string{"docker-compose-plugin"},
		RepoSetup: "dnf install -y dnf-plugins-core\n" +
			"dnf config-manager --add-repo https://download.docker.com/linux/fedora/docker-ce.repo",
	},
	"zypper": {
		Name:            "zypper",
		UpdateCmd:       "zypper --non-interactive refresh",
		InstallCmd:      "zypper --non-interactive install",
		EnginePackages:  []string{"docker"},
		ComposePackages: []string{"docker-compose"},
	},
	"pacman": {
		Name:            "pacman",
		UpdateCmd:       "pacman -Sy --noconfirm",
		InstallCmd:      "pacman -S --noconfirm --needed",
		EnginePackages:  []string{"docker"},
		ComposePackages: []string{"docker-compose"},
	},
}

// families maps a distribution ID to its package-manager family.
// Selected once during initialization; unknown IDs fall back to IDLike.
var families = map[string]string{
	"debian":              "apt",
	"ubuntu":              "apt",
	"raspbian":            "apt",
	"pop":                 "apt",
	"fedora":              "dnf",
	"rhel":                "dnf",
	"centos":              "dnf",
	"rocky":               "dnf",
	"almalinux":           "dnf",
	"opensuse-leap":       "zypper",
	"opensuse-tumbleweed": "zypper",
	"sles":                "zypper",
	"arch":                "pacman",
	"manjaro":             "pacman",
}

// Detect reads os-release and returns the distribution info.
func Detect() (Info, error) {
	for _, path := range osReleaseFiles {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		defer f.Close()
		return ParseOSRelease(f), nil
	}
	return Info{}, &UnsupportedPlatformError{}
}

// ParseOSRelease parses the key=value os-release format. Unknown keys are
// ignored; values may be quoted.
func ParseOSRelease(r io.Reader) Info {
	var info Info

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			info.ID = strings.ToLower(value)
		case "ID_LIKE":
			for _, like := range strings.Fields(value) {
				info.IDLike = append(info.IDLike, strings.ToLower(like))
			}
		case "PRETTY_NAME":
			info.PrettyName = value
		}
	}

	return info
}

// Resolve maps distribution info to its package manager. The ID is checked
// first, then each ID_LIKE entry in order. Failure is fatal to the run.
func Resolve(info Info) (PackageManager, error) {
	if family, ok := families[info.ID]; ok {
		return managers[family], nil
	}
	for _, like := range info.IDLike {
		if family, ok := families[like]; ok {
			return managers[family], nil
		}
	}
	return PackageManager{}, &UnsupportedPlatformError{Info: info}
}

// IsContainerized reports whether the host looks like a container or minimal
// virtualized environment without a full init system. Used only to enrich
// service-start failure diagnostics.
func IsContainerized() bool {
	for _, marker := range []string{"/.dockerenv", "/run/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}
	comm, err := os.ReadFile("/proc/1/comm")
	if err != nil {
		return false
	}
	init := strings.TrimSpace(string(comm))
	return init != "systemd" && init != "init"
}
