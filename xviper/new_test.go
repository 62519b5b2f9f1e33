package xviper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, arguments ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(DefaultFileFlag, "", "the configuration file")
	fs.Duration("wait", 0, "the wait")
	fs.String("log-level", "info", "the log level")
	require.NoError(t, fs.Parse(arguments))
	return fs
}

func testConfigureNil(t *testing.T) {
	assert := assert.New(t)

	v, err := Configure(nil, func(*viper.Viper) error {
		assert.Fail("options should not be applied to a nil Viper")
		return nil
	})

	assert.Nil(v)
	assert.NoError(err)
}

func testConfigureError(t *testing.T) {
	var (
		assert        = assert.New(t)
		expectedError = errors.New("expected")
		applied       bool
	)

	v, err := New(
		func(*viper.Viper) error { return expectedError },
		func(*viper.Viper) error {
			applied = true
			return nil
		},
	)

	assert.Nil(v)
	assert.Equal(expectedError, err)
	assert.False(applied)
}

func TestConfigure(t *testing.T) {
	t.Run("Nil", testConfigureNil)
	t.Run("Error", testConfigureError)
}

func testStdOptionsFlags(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		fs      = newFlagSet(t, "--wait", "2s")
	)

	v, err := New(StdOptions("test", fs))
	require.NoError(err)
	assert.Equal("2s", v.GetString("wait"))
	assert.Equal("info", v.GetString("log-level"))
}

func testStdOptionsEnvironment(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		fs      = newFlagSet(t)
	)

	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_WAIT", "150")

	v, err := New(StdOptions("test", fs))
	require.NoError(err)
	assert.Equal("debug", v.GetString("log-level"))
	assert.Equal("150", v.GetString("wait"))
}

func testStdOptionsConfigFile(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		file    = filepath.Join(t.TempDir(), "test.yaml")
	)

	require.NoError(os.WriteFile(file, []byte("wait: 5s\nname: fromfile\n"), 0o600))

	fs := newFlagSet(t, "--file", file)
	v, err := New(StdOptions("test", fs), ReadInConfig)
	require.NoError(err)
	assert.Equal(file, v.ConfigFileUsed())
	assert.Equal("5s", v.GetString("wait"))
	assert.Equal("fromfile", v.GetString("name"))
}

func TestStdOptions(t *testing.T) {
	t.Run("Flags", testStdOptionsFlags)
	t.Run("Environment", testStdOptionsEnvironment)
	t.Run("ConfigFile", testStdOptionsConfigFile)
}

func testReadInConfigNotFound(t *testing.T) {
	v, err := New(AddConfigPaths(t.TempDir()), SetConfigName("nosuch"), ReadInConfig)
	assert.NoError(t, err)
	assert.NotNil(t, v)
}

func testReadInConfigExplicitMissing(t *testing.T) {
	fs := newFlagSet(t, "--file", filepath.Join(t.TempDir(), "nosuch.yaml"))

	v, err := New(BindConfigFile(fs, DefaultFileFlag), ReadInConfig)
	assert.Error(t, err)
	assert.Nil(t, v)
}

func TestReadInConfig(t *testing.T) {
	t.Run("NotFound", testReadInConfigNotFound)
	t.Run("ExplicitMissing", testReadInConfigExplicitMissing)
}

func TestBindConfigFile(t *testing.T) {
	assert := assert.New(t)

	v, err := New(BindConfigFile(newFlagSet(t), DefaultFileFlag), BindConfigFile(newFlagSet(t), "nosuch"))
	assert.NoError(err)
	assert.Empty(v.ConfigFileUsed())

	v, err = New(BindConfigFile(newFlagSet(t, "--file", "/etc/test/test.yaml"), DefaultFileFlag))
	assert.NoError(err)
	assert.Equal("/etc/test/test.yaml", v.ConfigFileUsed())
}

func TestApplyDefaults(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	v, err := New(ApplyDefaults(Defaults{"name": "test", "maxCalls": 3}))
	require.NoError(err)
	assert.Equal("test", v.GetString("name"))
	assert.Equal(3, v.GetInt("maxcalls"))

	v.Set("name", "override")
	assert.Equal("override", v.GetString("name"))
}
