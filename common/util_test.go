//go:build unit
// +build unit

package common

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAsset(t *testing.T) {
	data, err := GetAsset("dimer.dat")
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(data, "1\nGround State Energy: -357.7873886607\n"))

	_, err = GetAsset("no_such_asset.dat")
	assert.NotNil(t, err)
}

func TestFileExists(t *testing.T) {
	path, err := GetAssetAbsPath("dimer.dat")
	assert.Nil(t, err)
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(t.TempDir()))
	assert.False(t, FileExists(path+".missing"))
}

func TestValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		port    string
		want    string
		wantErr string
	}{
		{
			name: "valid",
			host: "estimator.local",
			port: "50051",
			want: "estimator.local:50051",
		},
		{
			name:    "wrong host",
			host:    "hogehoge^^^-server.com",
			port:    "23413",
			wantErr: fmt.Sprintf("%s is an invalid host name", "hogehoge^^^-server.com"),
		},
		{
			name:    "wrong port",
			host:    "hogehoge-server.com",
			port:    "-23413",
			wantErr: fmt.Sprintf("%s is an invalid port number", "-23413"),
		},
		{
			name:    "port out of range",
			host:    "hogehoge-server.com",
			port:    "23413431243214",
			wantErr: fmt.Sprintf("%s is not a port number within the allowed range", "23413431243214"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address, err := ValidAddress(tt.host, tt.port)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.Equal(t, "", address)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tt.want, address)
		})
	}
}

func TestParseFloats(t *testing.T) {
	values, err := ParseFloats("0.5, -2,3e-1")
	assert.Nil(t, err)
	assert.Equal(t, []float64{0.5, -2, 0.3}, values)

	values, err = ParseFloats("  ")
	assert.Nil(t, err)
	assert.Empty(t, values)

	_, err = ParseFloats("1,,2")
	assert.EqualError(t, err, `"" is not a number`)
}

func TestIsDirWritable(t *testing.T) {
	assert.Nil(t, IsDirWritable(t.TempDir()))
	assert.NotNil(t, IsDirWritable("/no/such/dir"))
}

func TestContainsName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		list []string
		want bool
	}{
		{name: "exact", in: "CNOT", list: []string{"Ry", "CNOT"}, want: true},
		{name: "case and underscore", in: "c_not", list: []string{"CNOT"}, want: true},
		{name: "absent", in: "Rz", list: []string{"Ry", "H"}, want: false},
		{name: "empty list", in: "H", list: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsName(tt.in, tt.list))
		})
	}
}
