package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/go-faster/errors"
	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/oqtopus-team/oqtopus-mcvqe/log"
	"github.com/oqtopus-team/oqtopus-mcvqe/mcvqe"
	"github.com/oqtopus-team/oqtopus-mcvqe/optimizer"
	"github.com/oqtopus-team/oqtopus-mcvqe/qpu"
	"github.com/oqtopus-team/oqtopus-mcvqe/store"
)

var versionByBuildFlag string
var parser *flags.Parser
var app *App

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	app = &App{}
	setParser(app)
}

type App struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	Executor string `long:"executor" description:"executor-type" default:"statevector" choice:"statevector" choice:"gateway" env:"MCVQE_EXECUTOR_TYPE"`
	Store    string `long:"store" description:"result-store-type" default:"memory" choice:"memory" choice:"file" choice:"s3" env:"MCVQE_STORE_TYPE"`
}

func setParser(a *App) {
	parser = flags.NewParser(a, flags.Default)
	parser.ShortDescription = "mcvqe"
	parser.LongDescription = "multistate contracted VQE for excited states of chromophore aggregates."
	parser.AddCommand("run", "optimize the entangler", "optimize the entangler and compute the MC-VQE spectrum", &runCmd{})
	parser.AddCommand("evaluate", "evaluate fixed parameters", "compute the MC-VQE energies at fixed entangler parameters", &evaluateCmd{})
	parser.AddCommand("serve", "start an estimator server", "serve the state-vector simulator to gateway executors", &serveCmd{})
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func main() {
	parse()
}

func (a *App) provideDIContainer() (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() (core.Executor, error) {
		switch a.DIContainerParameters.Executor {
		case "statevector":
			return qpu.NewStateVectorQPU(), nil
		case "gateway":
			return qpu.NewGatewayQPU(), nil
		default:
			return nil, fmt.Errorf("%s is an unknown executor", a.DIContainerParameters.Executor)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() core.Optimizer { return optimizer.NewGonumOptimizer() })
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() (core.ResultStore, error) {
		switch a.DIContainerParameters.Store {
		case "memory":
			return store.NewMemory(), nil
		case "file":
			return &store.File{}, nil
		case "s3":
			return &store.S3{}, nil
		default:
			return nil, fmt.Errorf("%s is an unknown result store", a.DIContainerParameters.Store)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

// prepare installs the logger, reads the setting file and sets up the
// system components. The returned function releases them.
func prepare(conf *core.Conf) (*core.SystemComponents, func(), error) {
	logger, err := log.SetZap(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		return nil, nil, err
	}
	if common.FileExists(conf.SettingPath) {
		if err := core.ParseSettingFromPath(conf.SettingPath); err != nil {
			zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
			return nil, nil, err
		}
	} else {
		zap.L().Info(fmt.Sprintf("setting file %s is not found, using defaults", conf.SettingPath))
	}
	core.SetVersion(conf, versionByBuildFlag)
	core.SetInfo(conf)
	log.LogInfo()

	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", app.DIContainerParameters))
	container, err := app.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return nil, nil, err
	}
	s := core.NewSystemComponents(container)
	if err := s.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		return nil, nil, err
	}
	return s, func() {
		s.TearDown()
		_ = logger.Sync()
	}, nil
}

// runGroup runs fn next to an interrupt handler. An interrupt cancels the
// context given to fn.
func runGroup(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		return fn(ctx)
	}, func(error) {
		cancel()
	})
	err := g.Run()
	var se run.SignalError
	if errors.As(err, &se) {
		zap.L().Info(fmt.Sprintf("stopped by %s", se.Signal))
	}
	return err
}

func engineParams(s *core.SystemComponents, conf *core.Conf, metrics *log.IterationMetrics) map[string]interface{} {
	p := map[string]interface{}{
		mcvqe.KeyAccelerator:  s.Executor(),
		mcvqe.KeyOptimizer:    s.Optimizer(),
		mcvqe.KeyCyclic:       conf.Cyclic,
		mcvqe.KeyLogLevel:     conf.DiagnosticLevel,
		mcvqe.KeyTNQVMLog:     conf.ExecutorLog,
		mcvqe.KeyInterference: !conf.DisableInterference,
		mcvqe.KeyWorkers:      conf.Workers,
	}
	if conf.NChromophores != 0 {
		p[mcvqe.KeyNChromophores] = conf.NChromophores
	}
	if conf.DataPath != "" {
		p[mcvqe.KeyDataPath] = conf.DataPath
	}
	if conf.NStates != 0 {
		p[mcvqe.KeyNStates] = conf.NStates
	}
	if conf.GradientStrategy != "" {
		p[mcvqe.KeyGradientStrategy] = conf.GradientStrategy
	}
	if metrics != nil {
		p[mcvqe.KeyMetrics] = metrics
	}
	return p
}

// runEngine initializes MC-VQE, runs fn on it and stores the result.
func runEngine(fn func(ctx context.Context, m *mcvqe.MCVQE) (*core.Result, error)) error {
	s, release, err := prepare(app.Conf)
	if err != nil {
		return err
	}
	defer release()

	metrics, err := log.NewIterationMetrics(app.Conf.MetricsDir)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to open metrics log/reason:%s", err))
		return err
	}
	defer metrics.Close()

	m, err := mcvqe.Initialize(engineParams(s, app.Conf, metrics))
	if err != nil {
		return err
	}
	return runGroup(func(ctx context.Context) error {
		res, err := fn(ctx, m)
		if err != nil {
			zap.L().Error(fmt.Sprintf("MC-VQE failed/reason:%s", err))
			return err
		}
		if err := s.ResultStore().Save(ctx, res); err != nil {
			zap.L().Error(fmt.Sprintf("failed to save result %s/reason:%s", res.ID, err))
			return err
		}
		zap.L().Info(fmt.Sprintf("saved result %s", res.ID))
		fmt.Println(res.ToString())
		return nil
	})
}

type runCmd struct{}

func (c *runCmd) Execute(args []string) error {
	return runEngine(func(ctx context.Context, m *mcvqe.MCVQE) (*core.Result, error) {
		return m.Execute(ctx)
	})
}

type evaluateCmd struct {
	Params string `long:"params" description:"comma separated entangler parameters" required:"true"`
}

func (c *evaluateCmd) Execute(args []string) error {
	x, err := common.ParseFloats(c.Params)
	if err != nil {
		return errors.Wrap(err, "params")
	}
	return runEngine(func(ctx context.Context, m *mcvqe.MCVQE) (*core.Result, error) {
		return m.Evaluate(ctx, x)
	})
}

type serveCmd struct {
	Host string `long:"host" description:"listen host" default:"0.0.0.0" env:"MCVQE_SERVE_HOST"`
	Port string `long:"port" description:"listen port" default:"50051" env:"MCVQE_SERVE_PORT"`
}

func (c *serveCmd) Execute(args []string) error {
	_, release, err := prepare(app.Conf)
	if err != nil {
		return err
	}
	defer release()

	address, err := common.ValidAddress(c.Host, c.Port)
	if err != nil {
		return err
	}
	simulator := qpu.NewStateVectorQPU()
	if err := simulator.Setup(app.Conf); err != nil {
		return err
	}
	lis, err := net.Listen("tcp", address)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to listen on %s/reason:%s", address, err))
		return err
	}
	srv := grpc.NewServer()
	qpu.RegisterEstimatorServer(srv, qpu.NewEstimatorServer(simulator))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		zap.L().Info(fmt.Sprintf("estimator server listening on %s", address))
		return srv.Serve(lis)
	}, func(error) {
		srv.GracefulStop()
	})
	err = g.Run()
	var se run.SignalError
	if errors.As(err, &se) {
		zap.L().Info(fmt.Sprintf("estimator server stopped by %s", se.Signal))
		return nil
	}
	return err
}
