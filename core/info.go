package core

type NonSecretConf struct {
	DevMode             bool
	LogLevel            string
	SettingPath         string
	DataPath            string
	NChromophores       int
	Cyclic              bool
	NStates             int
	DisableInterference bool
	GradientStrategy    string
	Workers             int
	OptimizerMethod     string
}

type Info struct {
	Version string
	Conf    *NonSecretConf
}

var CurrentInfo *Info

func SetInfo(c *Conf) {
	conf := &NonSecretConf{
		DevMode:             c.DevMode,
		LogLevel:            c.LogLevel,
		SettingPath:         c.SettingPath,
		DataPath:            c.DataPath,
		NChromophores:       c.NChromophores,
		Cyclic:              c.Cyclic,
		NStates:             c.NStates,
		DisableInterference: c.DisableInterference,
		GradientStrategy:    c.GradientStrategy,
		Workers:             c.Workers,
		OptimizerMethod:     c.OptimizerMethod,
	}

	CurrentInfo = &Info{
		Version: Version,
		Conf:    conf,
	}
}
