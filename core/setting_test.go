//go:build unit
// +build unit

package core

import (
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
)

type testSettingGateway struct {
	Host    string        `toml:"host"`
	Port    string        `toml:"port"`
	Timeout time.Duration `toml:"timeout"`
}

type testSettingOptimizer struct {
	Method            string    `toml:"method"`
	InitialParameters []float64 `toml:"initial-parameters"`
}

func TestRegisterSettings(t *testing.T) {
	ResetSetting()
	RegisterSetting("gateway", testSettingGateway{Host: "localhost"})
	RegisterSetting("optimizer", testSettingOptimizer{Method: "nelder-mead"})
	assert.Equal(t, []string{"gateway", "optimizer"}, RegisteredSettingNames())
	v, ok := DefaultSetting("gateway")
	assert.True(t, ok)
	assert.Equal(t, testSettingGateway{Host: "localhost"}, v)
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		wantError     bool
		wantFound     bool
		wantGateway   testSettingGateway
		wantOptimizer testSettingOptimizer
	}{
		{
			name:          "empty",
			in:            "",
			wantGateway:   testSettingGateway{Host: "localhost", Port: "5001", Timeout: time.Second},
			wantOptimizer: testSettingOptimizer{Method: "nelder-mead"},
		},
		{
			name: "partial tables keep defaults",
			in: heredoc.Doc(`
				[com.gateway]
				port = "6001"
				timeout = "30s"

				[com.optimizer]
				initial-parameters = [0.1, -0.2]
			`),
			wantFound:     true,
			wantGateway:   testSettingGateway{Host: "localhost", Port: "6001", Timeout: 30 * time.Second},
			wantOptimizer: testSettingOptimizer{Method: "nelder-mead", InitialParameters: []float64{0.1, -0.2}},
		},
		{
			name:      "broken toml",
			in:        "[com.gateway\nport = 1",
			wantError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetSetting()
			err := ParseSetting(tt.in)
			if tt.wantError {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
			gw := testSettingGateway{Host: "localhost", Port: "5001", Timeout: time.Second}
			found, err := DecodeComponentSetting("gateway", &gw)
			assert.Nil(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantGateway, gw)

			opt := testSettingOptimizer{Method: "nelder-mead"}
			_, err = DecodeComponentSetting("optimizer", &opt)
			assert.Nil(t, err)
			assert.Equal(t, tt.wantOptimizer, opt)
		})
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	ResetSetting()
	assert.Nil(t, ParseSetting("[com.gateway]\nport = 6001\n"))
	gw := testSettingGateway{}
	found, err := DecodeComponentSetting("gateway", &gw)
	assert.True(t, found)
	assert.NotNil(t, err)
}
