// Package platform resolves per-OS well-known directories and guards
// against touching paths no cleanup tool should ever remove.
package platform

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform represents the operating system platform.
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// ErrUnsupportedPlatform is returned on platforms devsweep has no path
// tables for.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Info contains platform facts the detectors and config layer depend on.
type Info struct {
	OS       Platform
	HomeDir  string
	Username string
}

// Detect returns the current platform.
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// GetInfo returns platform-specific information for the current user.
func GetInfo() (*Info, error) {
	p := Detect()
	if p == Unknown {
		return nil, ErrUnsupportedPlatform
	}
	current, err := user.Current()
	if err != nil {
		return nil, err
	}
	return &Info{OS: p, HomeDir: current.HomeDir, Username: current.Username}, nil
}

// UserConfigDir returns the directory devsweep's config file lives under.
func UserConfigDir() (string, error) {
	switch Detect() {
	case MacOS:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case Linux:
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config"), nil
	default:
		return "", ErrUnsupportedPlatform
	}
}

// protectedRoots are never deleted, nor anything directly under them that is
// not itself a cache the detectors identified.
var protectedRoots = []string{
	"/",
	"/bin",
	"/boot",
	"/etc",
	"/lib",
	"/sbin",
	"/usr",
	"/var/db",
	"/System",
	"/Applications",
	"/Library/Extensions",
}

// IsProtectedPath reports whether path is a system location deletion must
// refuse. The prefix check is separator-aware so /usr does not shadow
// /usr-local-style siblings.
func IsProtectedPath(path string) bool {
	clean := filepath.Clean(path)
	for _, root := range protectedRoots {
		if clean == root {
			return true
		}
		if root != "/" && strings.HasPrefix(clean, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
