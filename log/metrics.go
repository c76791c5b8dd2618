package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"go.uber.org/zap"
)

const (
	MetricsSettingName = "metrics"
	metricsMessage     = "MC-VQE iteration"
)

type MetricsSetting struct {
	FileDir string `toml:"file-dir"`
}

func init() {
	core.RegisterSetting(MetricsSettingName, MetricsSetting{})
}

// IterationMetrics appends one JSON line per objective evaluation to a
// daily file.
type IterationMetrics struct {
	mu        sync.Mutex
	dl        *dailyLogger
	logger    *slog.Logger
	iteration int
}

// NewIterationMetrics writes to fileDir; an empty fileDir falls back to
// [com.metrics] file-dir. Both empty means no metrics and a nil result.
func NewIterationMetrics(fileDir string) (*IterationMetrics, error) {
	if fileDir == "" {
		s := MetricsSetting{}
		if _, err := core.DecodeComponentSetting(MetricsSettingName, &s); err != nil {
			return nil, err
		}
		fileDir = s.FileDir
	}
	if fileDir == "" {
		return nil, nil
	}
	if err := common.IsDirWritable(fileDir); err != nil {
		zap.L().Error("failed to set up iteration metrics", zap.Error(err))
		return nil, fmt.Errorf("failed to write to %s: %w", fileDir, err)
	}
	dl := newDailyLogger(fileDir)
	return &IterationMetrics{
		dl:     dl,
		logger: slog.New(slog.NewJSONHandler(dl, nil)),
	}, nil
}

// Record logs the average energy, the per-state energies and the parameters
// of one evaluation. A nil receiver does nothing.
func (m *IterationMetrics) Record(average float64, energies, params []float64, committed bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iteration++
	m.logger.Info(
		metricsMessage,
		slog.Int("iteration", m.iteration),
		slog.Float64("average_energy", average),
		slog.Any("energies", energies),
		slog.Any("params", params),
		slog.Bool("committed", committed),
	)
}

func (m *IterationMetrics) Iterations() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.iteration
}

func (m *IterationMetrics) Close() error {
	if m == nil {
		return nil
	}
	return m.dl.Close()
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
}

func newDailyLogger(fileDir string) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
	}
}

func metricsFileName(t time.Time) string {
	return fmt.Sprintf("mcvqe-metrics-%s.log", t.Format("2006-01-02"))
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := metricsFileName(time.Now())
	if dl.file == nil || dl.currentFileName != fileName {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filepath.Join(dl.fileDir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		err := dl.file.Close()
		dl.file = nil
		return err
	}
	return nil
}
