package core

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"go.uber.org/zap"
)

var globalSetting *Setting

// Setting holds the [com.<name>] tables of the setting file. Each table is
// decoded lazily into the component's own setting struct.
type Setting struct {
	ComponentSetting map[string]toml.Primitive `toml:"com,omitempty"`

	meta       toml.MetaData
	registered map[string]interface{}
}

func newSetting() *Setting {
	return &Setting{
		ComponentSetting: make(map[string]toml.Primitive),
		registered:       make(map[string]interface{}),
	}
}

func ResetSetting() {
	globalSetting = newSetting()
}

// RegisterSetting records the default value of a component setting.
func RegisterSetting(settingName string, defaultVal interface{}) {
	if globalSetting == nil {
		ResetSetting()
	}
	globalSetting.registerSetting(settingName, defaultVal)
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return ParseSetting(tomlString)
}

func ParseSetting(tomlString string) error {
	if globalSetting == nil {
		ResetSetting()
	}
	return globalSetting.parseSetting(tomlString)
}

func GetGlobalSetting() *Setting {
	return globalSetting
}

// DecodeComponentSetting overwrites the fields of dst that are present in
// the [com.<name>] table. It reports whether the table exists.
func DecodeComponentSetting(name string, dst interface{}) (bool, error) {
	if globalSetting == nil {
		zap.L().Debug("Setting is not initialized")
		return false, nil
	}
	return globalSetting.decode(name, dst)
}

// RegisteredSettingNames lists registered components in name order.
func RegisteredSettingNames() []string {
	if globalSetting == nil {
		return nil
	}
	names := make([]string, 0, len(globalSetting.registered))
	for n := range globalSetting.registered {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultSetting returns the registered default of a component.
func DefaultSetting(name string) (interface{}, bool) {
	if globalSetting == nil {
		return nil, false
	}
	v, ok := globalSetting.registered[name]
	return v, ok
}

func (s *Setting) registerSetting(settingName string, settingVal interface{}) {
	s.registered[settingName] = settingVal
}

func (s *Setting) parseSetting(tomlString string) error {
	meta, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	s.meta = meta
	for name := range s.ComponentSetting {
		if _, ok := s.registered[name]; !ok {
			zap.L().Warn(fmt.Sprintf("unknown component setting:%s", name))
		}
	}
	zap.L().Debug(fmt.Sprintf("Setting has components %v", s.componentNames()))
	return nil
}

func (s *Setting) decode(name string, dst interface{}) (bool, error) {
	p, ok := s.ComponentSetting[name]
	if !ok {
		return false, nil
	}
	if err := s.meta.PrimitiveDecode(p, dst); err != nil {
		zap.L().Error(fmt.Sprintf("failed to decode %s setting/reason:%s", name, err))
		return true, err
	}
	return true, nil
}

func (s *Setting) componentNames() []string {
	names := make([]string, 0, len(s.ComponentSetting))
	for n := range s.ComponentSetting {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
