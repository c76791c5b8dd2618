package log

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"go.uber.org/zap"
)

// LogInfo writes the version and the non secret configuration.
func LogInfo() {
	zap.L().Debug("mcvqe version:" + core.Version)
	if core.CurrentInfo != nil && core.CurrentInfo.Conf != nil {
		zap.L().Debug(fmt.Sprintf("configuration:%+v", *core.CurrentInfo.Conf))
	}
}
