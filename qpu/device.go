package qpu

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"go.uber.org/zap"
)

const (
	StateVectorSettingName = "statevector"
	DefaultMaxQubits       = 24
)

// DeviceSetting limits what the local simulator accepts. Shots > 0 replaces
// exact expectation values by estimates from sampled measurements.
type DeviceSetting struct {
	MaxQubits int         `toml:"max-qubits"`
	Shots     int         `toml:"shots"`
	Seed      uint64      `toml:"seed"`
	AllowList *GateFilter `toml:"allow-list"`
	DenyList  *GateFilter `toml:"deny-list"`
}

type GateFilter struct {
	Enabled bool     `toml:"enabled"`
	Gates   []string `toml:"gates"`
}

func NewDeviceSetting() *DeviceSetting {
	return &DeviceSetting{
		MaxQubits: DefaultMaxQubits,
		AllowList: &GateFilter{},
		DenyList:  &GateFilter{},
	}
}

func init() {
	core.RegisterSetting(StateVectorSettingName, *NewDeviceSetting())
}

// LoadDeviceSetting reads [com.statevector]; a missing table keeps the
// defaults.
func LoadDeviceSetting() (*DeviceSetting, error) {
	ds := NewDeviceSetting()
	if _, err := core.DecodeComponentSetting(StateVectorSettingName, ds); err != nil {
		return &DeviceSetting{}, err
	}
	if ds.MaxQubits <= 0 || ds.MaxQubits > 30 {
		return &DeviceSetting{}, fmt.Errorf("max-qubits must be in [1,30], got %d", ds.MaxQubits)
	}
	if ds.Shots < 0 {
		return &DeviceSetting{}, fmt.Errorf("shots must not be negative, got %d", ds.Shots)
	}
	if ds.AllowList == nil {
		ds.AllowList = &GateFilter{}
	}
	if ds.DenyList == nil {
		ds.DenyList = &GateFilter{}
	}
	return ds, nil
}

func validateCircuit(c *circuit.Composite, ds *DeviceSetting) error {
	if ds.AllowList.Enabled {
		if err := filterList(c, ds.AllowList.Gates, false); err != nil {
			zap.L().Info(fmt.Sprintf("[AllowList Error] %s", err.Error()))
			return err
		}
	}
	if ds.DenyList.Enabled {
		if err := filterList(c, ds.DenyList.Gates, true); err != nil {
			zap.L().Info(fmt.Sprintf("[DenyList Error] %s", err.Error()))
			return err
		}
	}
	return checkResource(c, ds.MaxQubits)
}

func filterList(c *circuit.Composite, gates []string, returnIfFiltered bool) error {
	for _, inst := range c.Instructions() {
		listed := common.ContainsName(inst.Name, gates)
		if listed == returnIfFiltered {
			return fmt.Errorf("gate:%s is not supported", inst.Name)
		}
	}
	return nil
}

func checkResource(c *circuit.Composite, maxQubits int) error {
	if c.NQubits() > maxQubits {
		return fmt.Errorf("too many qubits in the circuit, the simulator has %d qubits", maxQubits)
	}
	return nil
}
