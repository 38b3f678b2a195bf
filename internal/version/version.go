// Package version holds build information for devcon, injected at link time
// with -ldflags "-X devconsole/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"

	// BuildDate is when the binary was built.
	BuildDate = "unknown"
)

// Info is the build description printed by `devcon version`.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"gitCommit"`
	BuildDate  string `json:"buildDate"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
	Prerelease bool   `json:"prerelease"`
}

// Parse validates v as a semantic version.
func Parse(v string) (*semver.Version, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", v, err)
	}
	return sv, nil
}

// GetInfo returns the build information, failing if Version is not semver.
func GetInfo() (Info, error) {
	sv, err := Parse(Version)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Version:    sv.String(),
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Prerelease: sv.Prerelease() != "",
	}, nil
}

// String is the one-line form: "devcon v1.2.3, commit abc1234, built <date>".
func (i Info) String() string {
	parts := []string{"devcon v" + i.Version}
	if i.GitCommit != "unknown" && i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		parts = append(parts, "commit "+commit)
	}
	if i.BuildDate != "unknown" && i.BuildDate != "" {
		parts = append(parts, "built "+i.BuildDate)
	}
	return strings.Join(parts, ", ")
}

// Detailed is the multi-line form used by `devcon version --verbose`.
func (i Info) Detailed() string {
	return strings.Join([]string{
		i.String(),
		"Git Commit: " + i.GitCommit,
		"Build Date: " + i.BuildDate,
		"Go Version: " + i.GoVersion,
		"Platform: " + i.Platform,
	}, "\n")
}

// Compare returns -1, 0 or 1 as v1 is older than, equal to or newer than v2.
func Compare(v1, v2 string) (int, error) {
	a, err := Parse(v1)
	if err != nil {
		return 0, err
	}
	b, err := Parse(v2)
	if err != nil {
		return 0, err
	}
	return a.Compare(b), nil
}

// Satisfies reports whether the running version meets constraint, e.g. ">= 0.1".
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint '%s': %w", constraint, err)
	}
	sv, err := Parse(Version)
	if err != nil {
		return false, err
	}
	return c.Check(sv), nil
}

// SetBuildInfo overrides the build variables.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
