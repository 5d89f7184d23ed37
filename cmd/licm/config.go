package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

const configFileName = "licm.toml"

type fileConfig struct {
	Pass   passSection   `toml:"pass"`
	Trace  traceSection  `toml:"trace"`
	Output outputSection `toml:"output"`
}

type passSection struct {
	Verify    bool `toml:"verify"`
	Normalize bool `toml:"normalize"`
	Jobs      int  `toml:"jobs"`
}

type traceSection struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

type outputSection struct {
	Format string `toml:"format"`
}

// cliConfig is the effective configuration: file values overridden by
// explicitly set flags.
type cliConfig struct {
	path  string
	file  fileConfig
	meta  toml.MetaData
	color colorMode

	quiet   bool
	timings bool
	jobs    int

	traceOutput   string
	traceLevel    string
	traceMode     string
	traceRingSize int
}

// defined reports whether key was set in the config file.
func (c *cliConfig) defined(key ...string) bool {
	return c.path != "" && c.meta.IsDefined(key...)
}

// boolSetting resolves a boolean from an explicitly set flag, then the
// config file, then the flag default.
func (c *cliConfig) boolSetting(cmd *cobra.Command, flag string, value bool, key ...string) (bool, error) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return cmd.Flags().GetBool(flag)
	}
	if c.defined(key...) {
		return value, nil
	}
	return cmd.Flags().GetBool(flag)
}

// stringSetting is boolSetting for strings.
func (c *cliConfig) stringSetting(cmd *cobra.Command, flag, value string, key ...string) (string, error) {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return cmd.Flags().GetString(flag)
	}
	if c.defined(key...) {
		return value, nil
	}
	return cmd.Flags().GetString(flag)
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *cliConfig) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(cmd *cobra.Command) *cliConfig {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*cliConfig); ok {
			return cfg
		}
	}
	return &cliConfig{color: colorAuto, traceLevel: "off", traceMode: "stream"}
}

func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfigFile(path string) (fileConfig, toml.MetaData, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, meta, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, meta, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("pass", "jobs") && cfg.Pass.Jobs < 0 {
		return fileConfig{}, meta, fmt.Errorf("%s: [pass].jobs must not be negative", path)
	}
	if meta.IsDefined("output", "format") {
		if _, err := readEmitFormat(cfg.Output.Format); err != nil {
			return fileConfig{}, meta, fmt.Errorf("%s: [output].format: %w", path, err)
		}
	}
	return cfg, meta, nil
}

// loadCLIConfig reads the config file named by --config, or the nearest
// licm.toml above the working directory, and merges the root flags.
func loadCLIConfig(cmd *cobra.Command) (*cliConfig, error) {
	flags := cmd.Root().PersistentFlags()
	cfg := &cliConfig{}

	path, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := findConfigFile(".")
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		file, meta, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg.path, cfg.file, cfg.meta = path, file, meta
	}

	colorValue, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if cfg.color, err = readColorMode(colorValue); err != nil {
		return nil, err
	}
	if cfg.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if cfg.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg.jobs, err = flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !flags.Changed("jobs") && cfg.defined("pass", "jobs") {
		cfg.jobs = cfg.file.Pass.Jobs
	}
	if cfg.jobs < 0 {
		return nil, fmt.Errorf("--jobs must not be negative, got %d", cfg.jobs)
	}

	if cfg.traceOutput, err = cfg.stringSetting(cmd, "trace", cfg.file.Trace.Output, "trace", "output"); err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if cfg.traceLevel, err = cfg.stringSetting(cmd, "trace-level", cfg.file.Trace.Level, "trace", "level"); err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if cfg.traceMode, err = cfg.stringSetting(cmd, "trace-mode", cfg.file.Trace.Mode, "trace", "mode"); err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	if cfg.traceRingSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	return cfg, nil
}
