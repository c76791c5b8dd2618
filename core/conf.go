package core

type Conf struct {
	Version             string `long:"version" description:"version of mcvqe" env:"MCVQE_VERSION"`
	DevMode             bool   `long:"dev-mode" description:"run in dev mode" env:"MCVQE_DEV_MODE"`
	DisableStdoutLog    bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"MCVQE_DISABLE_STDOUT_LOG"`
	EnableFileLog       bool   `long:"enable-file-log" description:"enable log in file" env:"MCVQE_ENABLE_FILE_LOG"`
	LogDir              string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"MCVQE_LOG_DIR"`
	LogLevel            string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"MCVQE_LOG_LEVEL"`
	LogRotationMaxDays  int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"MCVQE_LOG_ROTATION_MAX_DAYS"`
	SettingPath         string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"MCVQE_SETTING_PATH"`
	DataPath            string `long:"data-path" short:"d" description:"chromophore data file" env:"MCVQE_DATA_PATH"`
	NChromophores       int    `long:"n-chromophores" short:"n" description:"number of chromophores" env:"MCVQE_N_CHROMOPHORES"`
	Cyclic              bool   `long:"cyclic" description:"close the chromophore chain into a ring" env:"MCVQE_CYCLIC"`
	NStates             int    `long:"n-states" description:"number of states to optimise, 0 for all" default:"0" env:"MCVQE_N_STATES"`
	DisableInterference bool   `long:"no-interference" description:"skip the interference phase" env:"MCVQE_NO_INTERFERENCE"`
	GradientStrategy    string `long:"gradient-strategy" description:"gradient provider name" env:"MCVQE_GRADIENT_STRATEGY"`
	DiagnosticLevel     int    `long:"diagnostic-level" description:"MC-VQE diagnostics, 1 phases, 2 iterations, 3 circuits" default:"0" env:"MCVQE_DIAGNOSTIC_LEVEL"`
	ExecutorLog         bool   `long:"tnqvm-log" description:"verbose executor logging around each call" env:"MCVQE_TNQVM_LOG"`
	Workers             int    `long:"workers" description:"parallel per-state and per-pair evaluations" default:"1" env:"MCVQE_WORKERS"`
	OptimizerMethod     string `long:"optimizer-method" description:"optimizer method overriding the setting file" choice:"nelder-mead" choice:"bfgs" choice:"lbfgs" choice:"gradient-descent" choice:"cg" env:"MCVQE_OPTIMIZER_METHOD"`
	MaxIterations       int    `long:"max-iterations" description:"optimizer iteration limit overriding the setting file" default:"0" env:"MCVQE_MAX_ITERATIONS"`
	MetricsDir          string `long:"metrics-dir" description:"directory of the per-iteration metrics log" env:"MCVQE_METRICS_DIR"`
}
