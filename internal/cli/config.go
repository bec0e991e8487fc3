package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/novaengine/compmeta/internal/aggregator"
	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/generator"
	"github.com/novaengine/compmeta/internal/parser"
	"github.com/novaengine/compmeta/internal/selector"
)

const (
	// ConfigName is the base name of the configuration file searched in the working directory
	ConfigName = "compmeta"
	// EnvPrefix prefixes environment overrides, e.g. COMPMETA_OUTPUT
	EnvPrefix = "COMPMETA"
)

// Config holds the configuration for one generation run
type Config struct {
	// Directories is the list of source roots to scan. Set from arguments, not the file.
	Directories []string `mapstructure:"-"`

	Output  string   `mapstructure:"output"`
	Format  string   `mapstructure:"format"`
	CopyTo  []string `mapstructure:"copy_to"`
	Workers int      `mapstructure:"workers"`
	Lenient bool     `mapstructure:"lenient"`

	Marker     string `mapstructure:"marker"`
	PoolMarker string `mapstructure:"pool_marker"`
	Macro      string `mapstructure:"macro"`

	Exclude    ExcludeConfig    `mapstructure:"exclude"`
	Extensions ExtensionsConfig `mapstructure:"extensions"`
}

// ExcludeConfig names the directories skipped during discovery
type ExcludeConfig struct {
	PackagesDir string `mapstructure:"packages_dir"`
	SharedDir   string `mapstructure:"shared_dir"`
}

// ExtensionsConfig lists the file extensions that are parsed
type ExtensionsConfig struct {
	Headers []string `mapstructure:"headers"`
	Sources []string `mapstructure:"sources"`
}

// NewViper returns a viper instance with compmeta's defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()

	policy := aggregator.DefaultScanPolicy()
	v.SetDefault("output", "metadata.json")
	v.SetDefault("format", string(generator.FormatJSON))
	v.SetDefault("copy_to", []string{})
	v.SetDefault("workers", 0)
	v.SetDefault("lenient", false)
	v.SetDefault("marker", selector.DefaultMarker)
	v.SetDefault("pool_marker", selector.DefaultPoolMarker)
	v.SetDefault("macro", parser.DefaultMarkerMacro)
	v.SetDefault("exclude.packages_dir", policy.PackagesDir)
	v.SetDefault("exclude.shared_dir", policy.SharedDir)
	v.SetDefault("extensions.headers", policy.HeaderExts)
	v.SetDefault("extensions.sources", policy.SourceExts)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig reads configFile, or compmeta.yaml from the working directory when
// configFile is empty, and returns the validated configuration. A missing
// default file is not an error; a missing explicit file is.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, errors.WrapConfigurationError(ConfigName, "read", err).
				WithSuggestion("Check that the configuration file exists and is valid YAML")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError(ConfigName, "decode", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return errors.ConfigurationError("output", "output path must not be empty")
	}
	if _, err := generator.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.ConfigurationError("workers", fmt.Sprintf("must be zero or positive, got %d", c.Workers)).
			WithSuggestion("Use 0 to parse with one worker per CPU")
	}
	if c.Marker == "" {
		return errors.ConfigurationError("marker", "marker base name must not be empty")
	}
	if c.PoolMarker != "" && !strings.Contains(c.PoolMarker, c.Marker) {
		return errors.ConfigurationError("pool_marker",
			fmt.Sprintf("'%s' does not contain the marker '%s' and would never exclude anything", c.PoolMarker, c.Marker))
	}
	if !isIdentifier(c.Macro) {
		return errors.ConfigurationError("macro", fmt.Sprintf("'%s' is not a C++ identifier", c.Macro))
	}
	if len(c.Extensions.Headers)+len(c.Extensions.Sources) == 0 {
		return errors.ConfigurationError("extensions", "at least one header or source extension is required")
	}
	for _, ext := range append(append([]string(nil), c.Extensions.Headers...), c.Extensions.Sources...) {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.ConfigurationError("extensions", fmt.Sprintf("extension '%s' must start with '.'", ext))
		}
	}
	return nil
}

// ScanPolicy returns the discovery policy described by the configuration
func (c *Config) ScanPolicy() aggregator.ScanPolicy {
	return aggregator.ScanPolicy{
		PackagesDir: c.Exclude.PackagesDir,
		SharedDir:   c.Exclude.SharedDir,
		HeaderExts:  c.Extensions.Headers,
		SourceExts:  c.Extensions.Sources,
	}
}

// ParserOptions returns the declaration parser options
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MarkerMacro: c.Macro,
		Lenient:     c.Lenient,
		Components:  c.Selector(),
	}
}

// Selector returns the component selector for the configured markers
func (c *Config) Selector() *selector.Selector {
	return &selector.Selector{
		Marker:     c.Marker,
		PoolMarker: c.PoolMarker,
		MacroTag:   c.Macro + "_",
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
