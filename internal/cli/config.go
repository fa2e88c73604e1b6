package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/docstubs/internal/generator"
	"github.com/example/docstubs/internal/validator"
)

const (
	configFileName = "docstubs"
	configFileType = "yaml"
	envPrefix      = "DOCSTUBS"

	defaultOutput   = "docs"
	defaultLogLevel = "info"
)

// Config holds everything one command run needs. Values come from flags,
// then DOCSTUBS_* environment variables, then docstubs.yml, then defaults.
type Config struct {
	Input        string `mapstructure:"input" validate:"required"`
	Output       string `mapstructure:"output" validate:"required"`
	EditManifest string `mapstructure:"edit_manifest"`
	Template     string `mapstructure:"template"`
	Clean        bool   `mapstructure:"clean"`
	DryRun       bool   `mapstructure:"dry_run"`
	LogLevel     string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	generator.Options `mapstructure:",squash"`
}

// loadConfig resolves the configuration of cmd. A missing docstubs.yml in
// the working directory is not an error; a missing --config file is.
func (a *app) loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetFs(a.fs)

	v.SetDefault("output", defaultOutput)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("root", generator.DefaultRoot)
	v.SetDefault("root_page", generator.DefaultRootPage)
	v.SetDefault("special_cases", generator.DefaultSpecialCases())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if bindErr != nil {
		return nil, fmt.Errorf("bind flags: %w", bindErr)
	}

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// readInput returns the bytes of the configured doc JSON.
func (a *app) readInput(cfg *Config) ([]byte, error) {
	data, err := afero.ReadFile(a.fs, cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
