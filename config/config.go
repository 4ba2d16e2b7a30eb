package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigPCLookahead        = "pc-lookahead"
	ConfigPCMaxHeight        = "pc-max-height"
	ConfigPCMaxNodes         = "pc-max-nodes"
	ConfigPCMemoryFraction   = "pc-memory-fraction"
	ConfigSetupHoldPolicy    = "setup-hold-policy"
	ConfigSetupsPath         = "setups-path"
	ConfigSeed               = "seed"
	ConfigCPUProfile         = "cpu-profile"
	ConfigHistoryFile        = "history-file"
	ConfigPCSolveConcurrency = "pcsolve-concurrency"
	ConfigFile               = "config-file"
)

// Config is the viper-backed settings bag shared by the commands.
type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config holding only defaults. Tests use it.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigPCLookahead, 5)
	c.SetDefault(ConfigPCMaxHeight, 4)
	c.SetDefault(ConfigPCMaxNodes, 0)
	c.SetDefault(ConfigPCMemoryFraction, 0.05)
	c.SetDefault(ConfigSetupHoldPolicy, "once")
	c.SetDefault(ConfigSetupsPath, "")
	c.SetDefault(ConfigSeed, 0)
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigHistoryFile, "/tmp/pcfinder_readline.tmp")
	c.SetDefault(ConfigPCSolveConcurrency, runtime.NumCPU())
}

// Load reads settings from, in increasing priority: an optional config
// file, PCFINDER_* environment variables, and --key=value flags in args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("pcfinder", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "log at debug level")
	fs.Int(ConfigPCLookahead, 5, "how many queued pieces the solver may use")
	fs.Int(ConfigPCMaxHeight, 4, "tallest band the solver tries")
	fs.Int(ConfigPCMaxNodes, 0, "node budget per search; 0 derives one from memory")
	fs.Float64(ConfigPCMemoryFraction, 0.05, "fraction of system memory a search may use")
	fs.String(ConfigSetupHoldPolicy, "once", "setup matcher hold policy: once or unlimited")
	fs.String(ConfigSetupsPath, "", "comma-separated extra setup YAML files")
	fs.Int64(ConfigSeed, 0, "randomizer seed; 0 picks one")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigHistoryFile, "/tmp/pcfinder_readline.tmp", "shell history file")
	fs.Int(ConfigPCSolveConcurrency, runtime.NumCPU(), "puzzles solved in parallel by pcsolve")
	fs.String(ConfigFile, "", "optional config file (yaml, toml or json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("pcfinder")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return c.Validate()
}

var ErrBadHoldPolicy = errors.New("setup-hold-policy must be once or unlimited")

func (c *Config) Validate() error {
	switch c.GetString(ConfigSetupHoldPolicy) {
	case "once", "unlimited":
	default:
		return ErrBadHoldPolicy
	}
	if h := c.GetInt(ConfigPCMaxHeight); h < 1 || h > 4 {
		return fmt.Errorf("%s must be between 1 and 4, got %d", ConfigPCMaxHeight, h)
	}
	if f := c.GetFloat64(ConfigPCMemoryFraction); f <= 0 || f > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", ConfigPCMemoryFraction, f)
	}
	return nil
}

// Args are the command-line arguments left after flags.
func (c *Config) Args() []string {
	return c.args
}

// SetupsPaths splits the setups-path setting.
func (c *Config) SetupsPaths() []string {
	var out []string
	for _, p := range strings.Split(c.GetString(ConfigSetupsPath), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
