// Package store persists run results.
package store

import (
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
)

const SettingName = "store"

var ErrNotFound = errors.New("result not found")

type Setting struct {
	Dir             string `toml:"dir"`
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access-key-id"`
	SecretAccessKey string `toml:"secret-access-key"`
	UsePathStyle    bool   `toml:"use-path-style"`
}

func NewSetting() Setting {
	return Setting{
		Dir:    "./shares/results",
		Prefix: "mcvqe/",
		Region: "ap-northeast-1",
	}
}

func init() {
	core.RegisterSetting(SettingName, NewSetting())
}

func loadSetting() (Setting, error) {
	s := NewSetting()
	if _, err := core.DecodeComponentSetting(SettingName, &s); err != nil {
		return Setting{}, err
	}
	return s, nil
}

func objectName(id string) string {
	return id + ".json"
}
