package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/mdpub/internal/logging"
)

// Defaults applied by targets when a key is not set.
const (
	DefaultPostsDir        = "src/content/posts"
	DefaultFilenamePattern = "{date}-{slug}.md"
)

// Config holds publish target, signer and logging settings.
type Config struct {
	Upload map[string]*TargetConfig `yaml:"upload" mapstructure:"upload"`
	Signer SignerConfig             `yaml:"signer" mapstructure:"signer"`
	Log    LogConfig                `yaml:"log"    mapstructure:"log"`
}

// TargetConfig is the per-target subtree under upload.<name>.
type TargetConfig struct {
	Enabled         bool   `yaml:"enabled"                    mapstructure:"enabled"`
	RepoRoot        string `yaml:"repo_root"                  mapstructure:"repo_root"`
	PostsDir        string `yaml:"posts_dir,omitempty"        mapstructure:"posts_dir"`
	FilenamePattern string `yaml:"filename_pattern,omitempty" mapstructure:"filename_pattern"`
	AutoCommit      bool   `yaml:"auto_commit"                mapstructure:"auto_commit"`
	GitCmd          string `yaml:"git_cmd,omitempty"          mapstructure:"git_cmd"`
}

// SignerConfig holds the image host's key identifier and shared secret.
type SignerConfig struct {
	Key    string `yaml:"key"    mapstructure:"key"`
	Secret string `yaml:"secret" mapstructure:"secret"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"  mapstructure:"level"`
	Format string `yaml:"format,omitempty" mapstructure:"format"`
}

// DefaultPath returns the default config file path (~/.mdpub.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mdpub.yaml"
	}
	return filepath.Join(home, ".mdpub.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Env var overrides
	v.BindEnv("upload.astro.repo_root", "MDPUB_ASTRO_REPO_ROOT")
	v.BindEnv("signer.key", "MDPUB_SIGNER_KEY")
	v.BindEnv("signer.secret", "MDPUB_SIGNER_SECRET")
	v.BindEnv("log.level", "MDPUB_LOG_LEVEL")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Target returns the subtree for the named target, or nil when absent.
func (c Config) Target(name string) *TargetConfig {
	if c.Upload == nil {
		return nil
	}
	return c.Upload[strings.ToLower(name)]
}

// SetTarget stores the subtree for the named target.
func (c *Config) SetTarget(name string, tc *TargetConfig) {
	if c.Upload == nil {
		c.Upload = map[string]*TargetConfig{}
	}
	c.Upload[strings.ToLower(name)] = tc
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log level %q is not recognised", c.Log.Level)
	}
	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("log format %q is not supported (console, json, pretty)", c.Log.Format)
	}
	for name, tc := range c.Upload {
		if tc != nil && filepath.IsAbs(tc.PostsDir) {
			return fmt.Errorf("upload.%s: posts_dir must be relative to repo_root", name)
		}
	}
	return nil
}

// Validate checks that signing credentials are present.
func (s SignerConfig) Validate() error {
	if s.Key == "" {
		return fmt.Errorf("signer key is required (set in config file or MDPUB_SIGNER_KEY env var)")
	}
	if s.Secret == "" {
		return fmt.Errorf("signer secret is required (set in config file or MDPUB_SIGNER_SECRET env var)")
	}
	return nil
}

// PostsDirOrDefault returns the configured posts directory or the default.
func (t *TargetConfig) PostsDirOrDefault() string {
	if t == nil || strings.TrimSpace(t.PostsDir) == "" {
		return DefaultPostsDir
	}
	return t.PostsDir
}

// FilenamePatternOrDefault returns the configured pattern or the default.
func (t *TargetConfig) FilenamePatternOrDefault() string {
	if t == nil || strings.TrimSpace(t.FilenamePattern) == "" {
		return DefaultFilenamePattern
	}
	return t.FilenamePattern
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
