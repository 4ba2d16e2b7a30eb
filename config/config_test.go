package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigPCLookahead), 5)
	is.Equal(c.GetInt(ConfigPCMaxHeight), 4)
	is.Equal(c.GetString(ConfigSetupHoldPolicy), "once")
	is.Equal(c.GetFloat64(ConfigPCMemoryFraction), 0.05)
	is.NoErr(c.Validate())
	is.Equal(len(c.SetupsPaths()), 0)
}

func TestLoadFlagsAndEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("PCFINDER_PC_MAX_NODES", "1234")
	c := &Config{}
	err := c.Load([]string{"--pc-lookahead=7", "--setups-path=a.yaml, b.yaml", "show"})
	is.NoErr(err)
	is.Equal(c.Args(), []string{"show"})
	is.Equal(c.GetInt(ConfigPCLookahead), 7)
	is.Equal(c.GetInt(ConfigPCMaxNodes), 1234)
	is.Equal(c.SetupsPaths(), []string{"a.yaml", "b.yaml"})
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "pcfinder.yaml")
	is.NoErr(os.WriteFile(path, []byte("pc-max-height: 2\nsetup-hold-policy: unlimited\n"), 0o644))
	c := &Config{}
	is.NoErr(c.Load([]string{"--config-file=" + path}))
	is.Equal(c.GetInt(ConfigPCMaxHeight), 2)
	is.Equal(c.GetString(ConfigSetupHoldPolicy), "unlimited")
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.Equal(c.Load([]string{"--setup-hold-policy=twice"}), ErrBadHoldPolicy)
	is.True(c.Load([]string{"--pc-max-height=5"}) != nil)
	is.True(c.Load([]string{"--no-such-flag"}) != nil)
}
