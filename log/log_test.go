//go:build unit
// +build unit

package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIterationMetrics(t *testing.T) {
	dir := t.TempDir()
	m, err := NewIterationMetrics(dir)
	require.NoError(t, err)
	m.Record(-1.5, []float64{-2, -1}, []float64{0.1, 0.2}, true)
	m.Record(-1.25, []float64{-1.5, -1}, []float64{0.3, 0.4}, false)
	require.NoError(t, m.Close())
	assert.Equal(t, 2, m.Iterations())

	f, err := os.Open(filepath.Join(dir, metricsFileName(time.Now())))
	require.NoError(t, err)
	defer f.Close()
	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var l map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		lines = append(lines, l)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, metricsMessage, lines[0]["msg"])
	assert.Equal(t, float64(1), lines[0]["iteration"])
	assert.Equal(t, -1.5, lines[0]["average_energy"])
	assert.Equal(t, []interface{}{-2.0, -1.0}, lines[0]["energies"])
	assert.Equal(t, false, lines[1]["committed"])
}

func TestIterationMetricsDisabled(t *testing.T) {
	core.ResetSetting()
	m, err := NewIterationMetrics("")
	assert.NoError(t, err)
	assert.Nil(t, m)
	m.Record(0, nil, nil, false)
	assert.Equal(t, 0, m.Iterations())
	assert.NoError(t, m.Close())

	_, err = NewIterationMetrics(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIterationMetricsFromSetting(t *testing.T) {
	dir := t.TempDir()
	core.ResetSetting()
	require.NoError(t, core.ParseSetting("[com.metrics]\nfile-dir = \""+filepath.ToSlash(dir)+"\"\n"))
	m, err := NewIterationMetrics("")
	require.NoError(t, err)
	require.NotNil(t, m)
	m.Record(1, []float64{1}, []float64{0}, true)
	require.NoError(t, m.Close())
	_, err = os.Stat(filepath.Join(dir, metricsFileName(time.Now())))
	assert.NoError(t, err)
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  int
	}{
		{name: "silent", level: 0, want: 0},
		{name: "phases", level: PhaseLevel, want: 1},
		{name: "iterations", level: IterationLevel, want: 2},
		{name: "circuits", level: CircuitLevel, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, logs := observer.New(zapcore.DebugLevel)
			d := NewDiagnostics(tt.level).WithLogger(zap.New(obs))
			d.Log(PhaseLevel, "phase %d", 1)
			d.Log(IterationLevel, "iteration")
			d.Log(CircuitLevel, "circuit")
			assert.Equal(t, tt.want, logs.Len())
		})
	}
	var d *Diagnostics
	assert.False(t, d.Enabled(PhaseLevel))
	d.Log(PhaseLevel, "nil diagnostics never log")
}

func TestZapLogger(t *testing.T) {
	dir := t.TempDir()
	l, err := ZapLogger(&core.Conf{LogLevel: "debug", EnableFileLog: true, LogDir: dir, LogRotationMaxDays: 1, DisableStdoutLog: true})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = ZapLogger(&core.Conf{EnableFileLog: true, LogDir: filepath.Join(dir, "missing")})
	assert.Error(t, err)

	l, err = ZapLogger(&core.Conf{LogLevel: "warn", DevMode: true})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
}
