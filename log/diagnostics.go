package log

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	PhaseLevel     = 1
	IterationLevel = 2
	CircuitLevel   = 3
)

// Diagnostics prints MC-VQE progress messages up to a verbosity level.
// It never affects control flow.
type Diagnostics struct {
	level  int
	logger *zap.Logger
}

func NewDiagnostics(level int) *Diagnostics {
	return &Diagnostics{level: level}
}

func (d *Diagnostics) Level() int {
	if d == nil {
		return 0
	}
	return d.level
}

func (d *Diagnostics) Enabled(level int) bool {
	return d.Level() >= level
}

func (d *Diagnostics) Log(level int, format string, args ...interface{}) {
	if !d.Enabled(level) {
		return
	}
	l := d.logger
	if l == nil {
		l = zap.L()
	}
	l.Info(fmt.Sprintf(format, args...), zap.Int("mcvqe_level", level))
}

// WithLogger returns a copy writing to l instead of the global logger.
func (d *Diagnostics) WithLogger(l *zap.Logger) *Diagnostics {
	return &Diagnostics{level: d.Level(), logger: l}
}
