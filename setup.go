package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/ccollins476ad/imgfetch/fileutil"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "IMGFETCH"
	defaultDestDir = "Fetched_Images"
	defaultMaxSize = "10MiB"
)

type Config struct {
	DestDir     string        // Directory to save images to.
	Input       string        // Text file to extract urls from; "" to prompt.
	MetricsFile string        // Prometheus textfile to write on exit; "" for none.
	MaxSize     int64         // Largest accepted Content-Length, in bytes.
	Timeout     time.Duration // Per-url request timeout.
	Verbose     bool          // True for verbose output.
	URLs        []string      // Urls given as arguments.
}

// newRootCmd builds the imgfetch command. Settings are resolved, in order of
// precedence, from flags, IMGFETCH_* environment variables, the optional
// config file, and flag defaults. The resolved config is passed to run.
func newRootCmd(run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "imgfetch [option]... [url]...",
		Short: "Downloads images from the web into a local directory.",
		Long: `Downloads images from the web into a local directory.

Urls are taken from the arguments, from the --input file, or else read
interactively from stdin until "done" or a blank line. Responses that are not
images, exceed the size limit, or duplicate an image already in the directory
are skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, args)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("dir", "d", defaultDestDir, "directory to save images to")
	flags.StringP("input", "i", "", "read urls from a text file instead of prompting")
	flags.String("max-size", defaultMaxSize, "largest accepted image size (e.g., 512KiB, 10MiB)")
	flags.Duration("timeout", download.DefaultTimeout, "per-url request timeout")
	flags.String("metrics-file", "", "write outcome counters to a prometheus textfile")
	flags.StringP("config", "c", "", "config file (yaml, toml or json)")
	flags.BoolP("verbose", "v", false, "verbose output")

	cobra.CheckErr(v.BindPFlags(flags))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func loadConfig(v *viper.Viper, args []string) (*Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	maxSize, err := humanize.ParseBytes(v.GetString("max-size"))
	if err != nil {
		return nil, fmt.Errorf("invalid max-size: %w", err)
	}

	cfg := &Config{
		DestDir:     v.GetString("dir"),
		Input:       v.GetString("input"),
		MetricsFile: v.GetString("metrics-file"),
		MaxSize:     int64(maxSize),
		Timeout:     v.GetDuration("timeout"),
		Verbose:     v.GetBool("verbose"),
		URLs:        args,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DestDir == "" {
		return fmt.Errorf("missing required setting: dir")
	}
	if fileutil.FileExists(c.DestDir) && !fileutil.IsDir(c.DestDir) {
		return fmt.Errorf("not a directory: %s", c.DestDir)
	}

	if c.Input != "" && !fileutil.FileExists(c.Input) {
		return fmt.Errorf("input file not found: %s", c.Input)
	}

	if c.MaxSize <= 0 {
		return fmt.Errorf("max-size must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: have=%s", c.Timeout)
	}

	return nil
}
