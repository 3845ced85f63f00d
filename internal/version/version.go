// Package version exposes build-time version information for the islet
// binary, populated through -ldflags or the module's VCS stamp.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time via -ldflags.
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// GitCommit is the git commit the binary was built from.
	GitCommit = "unknown"

	// BuildTime is the RFC3339 build timestamp.
	BuildTime = "unknown"
)

// BuildInfo is the assembled view of the build metadata.
type BuildInfo struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	BuildTime time.Time `json:"build_time"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
}

// Get returns the build metadata, falling back to the module's embedded
// VCS information when no ldflags were supplied.
func Get() *BuildInfo {
	return &BuildInfo{
		Version:   resolvedVersion(),
		GitCommit: resolvedCommit(),
		BuildTime: parseBuildTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short returns a single-line version string for --version output.
func Short() string {
	v := resolvedVersion()
	commit := resolvedCommit()
	if commit != "unknown" && len(commit) >= 7 {
		if v == "dev" {
			return fmt.Sprintf("dev-%s", commit[:7])
		}
		return fmt.Sprintf("%s (%s)", v, commit[:7])
	}
	return v
}

// Detailed returns a multi-line version report.
func Detailed() string {
	info := Get()

	var b strings.Builder
	fmt.Fprintf(&b, "Version: %s\n", info.Version)
	if info.GitCommit != "unknown" {
		fmt.Fprintf(&b, "Commit: %s\n", info.GitCommit)
	}
	if !info.BuildTime.IsZero() {
		fmt.Fprintf(&b, "Built: %s\n", info.BuildTime.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Go: %s\n", info.GoVersion)
	fmt.Fprintf(&b, "Platform: %s", info.Platform)

	return b.String()
}

func resolvedVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}

	return "dev"
}

func resolvedCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

func parseBuildTime(s string) time.Time {
	if s == "" || s == "unknown" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
