/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package version

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
)

const devBuild = "dev"

var (
	AppVersion = devBuild         // In release builds this will be overwritten via ldflags
	GitCommit  = "unknown-commit" // -"-
)

func IsDevBuild() bool {
	return AppVersion == devBuild
}

// Info describes the running build.
type Info struct {
	AppVersion string `json:"appVersion"`
	GitCommit  string `json:"gitCommit"`
	Prerelease bool   `json:"prerelease"`
}

// GetInfo returns the build information. Development builds and versions with
// a pre-release suffix (eg, '1.2.0-rc.1') are reported as pre-releases.
func GetInfo() (Info, error) {
	info := Info{
		AppVersion: AppVersion,
		GitCommit:  GitCommit,
		Prerelease: true,
	}
	if IsDevBuild() {
		return info, nil
	}

	parsed, err := goversion.NewSemver(AppVersion)
	if err != nil {
		return info, fmt.Errorf("invalid application version '%s': %w", AppVersion, err)
	}
	info.Prerelease = parsed.Prerelease() != ""
	return info, nil
}
