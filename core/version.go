package core

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

var Version string

const NoVersion = "no_version_info"

var readBuildInfo = debug.ReadBuildInfo

// SetVersion prefers the build flag, then the configured version, then the
// module version embedded by the go toolchain.
func SetVersion(c *Conf, versionByBuildFlag string) {
	switch {
	case versionByBuildFlag != "":
		Version = versionByBuildFlag
	case c.Version != "":
		Version = c.Version
	default:
		Version = moduleVersion()
	}
	zap.L().Info(fmt.Sprintf("mcvqe version is %s", Version))
}

func moduleVersion() string {
	bi, ok := readBuildInfo()
	if !ok || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return NoVersion
	}
	return bi.Main.Version
}
