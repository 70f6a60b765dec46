// Package config holds runtime settings. Settings are viper-backed, so any
// flag can also be supplied through a SLIPTILE_ environment variable, with
// explicit command-line flags taking precedence.
package config

import (
	"flag"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	v    *viper.Viper
	args []string
}

func defaultViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("sliptile")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("heuristic", "both")
	v.SetDefault("board", "")
	v.SetDefault("random", false)
	v.SetDefault("scramble", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("experiment", false)
	v.SetDefault("trials", 50)
	v.SetDefault("threads", 0)
	v.SetDefault("trial-log", "")
	v.SetDefault("visualize", 20)
	v.SetDefault("tree-file", "")
	v.SetDefault("shell", false)
	v.SetDefault("debug", false)
	v.SetDefault("cpu-profile", "")
	v.SetDefault("mem-profile", "")
	return v
}

// DefaultConfig returns a config with every setting at its default, still
// honoring environment variables.
func DefaultConfig() *Config {
	return &Config{v: defaultViper()}
}

// Load parses command-line style args into the config. Flags that are not
// given keep their environment or default values.
func (c *Config) Load(args []string) error {
	v := defaultViper()

	fs := flag.NewFlagSet("sliptile", flag.ContinueOnError)
	fs.String("heuristic", v.GetString("heuristic"), "evaluator to solve with: manhattan, misplaced or both")
	fs.String("board", v.GetString("board"), "starting board, e.g. \"123/405/786\"")
	fs.Bool("random", v.GetBool("random"), "solve a uniformly random board")
	fs.Int("scramble", v.GetInt("scramble"), "random-walk this many moves from a goal instead of the default board")
	fs.Uint64("seed", v.GetUint64("seed"), "base random seed; 0 picks one")
	fs.Bool("experiment", v.GetBool("experiment"), "run the batch experiment harness")
	fs.Int("trials", v.GetInt("trials"), "experiment trial count")
	fs.Int("threads", v.GetInt("threads"), "experiment worker count; 0 uses all CPUs")
	fs.String("trial-log", v.GetString("trial-log"), "append experiment trial records to this YAML file")
	fs.Int("visualize", v.GetInt("visualize"), "search-tree edges to keep when exporting")
	fs.String("tree-file", v.GetString("tree-file"), "write the search tree as Graphviz DOT to this file")
	fs.Bool("shell", v.GetBool("shell"), "start the interactive shell")
	fs.Bool("debug", v.GetBool("debug"), "verbose logging")
	fs.String("cpu-profile", v.GetString("cpu-profile"), "write a CPU profile to this file")
	fs.String("mem-profile", v.GetString("mem-profile"), "write a heap profile to this file at exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		v.Set(f.Name, f.Value.String())
	})
	c.v = v
	c.args = fs.Args()
	return nil
}

// Args returns the positional arguments left after flag parsing. main treats
// them as a one-shot shell command.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetUint64(key string) uint64 {
	return c.v.GetUint64(key)
}

// Set overrides a single setting, taking precedence over flags and
// environment.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// AllSettings returns every setting for logging at startup.
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}
