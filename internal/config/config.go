// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lunescripts/lunescripts/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "lunescripts"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides (LUNESCRIPTS_INTERPRETER, ...).
	EnvPrefix = "LUNESCRIPTS"

	// maxConfigFileSize guards the CUE compiler against oversized input.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the lunescripts configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// UserConfigPath returns the config file that Load would read for opts,
// whether or not it exists.
func UserConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// WatchedPaths lists every file whose change can alter the effective
// configuration for opts.
func WatchedPaths(opts LoadOptions) []string {
	var paths []string
	if p, err := UserConfigPath(opts); err == nil {
		paths = append(paths, p)
	}
	if opts.WorkspaceRoot != "" {
		paths = append(paths, WorkspaceFilePath(opts.WorkspaceRoot))
	}
	return paths
}

// loadWithOptions performs option-driven config loading. Precedence, lowest
// first: defaults, user CUE file, workspace TOML overlay, environment.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("script_directories", defaults.ScriptDirectories)
	v.SetDefault("interpreter", defaults.Interpreter)
	v.SetDefault("probe_timeout", defaults.ProbeTimeout)
	v.SetDefault("terminal.name", defaults.Terminal.Name)
	v.SetDefault("terminal.backend", defaults.Terminal.Backend)
	v.SetDefault("terminal.shell", defaults.Terminal.Shell)
	v.SetDefault("terminal.exit_timeout", defaults.Terminal.ExitTimeout)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		// An explicit --config path must exist.
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'lunescripts config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", cueLoadError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cuePath, err := UserConfigPath(opts)
		if err != nil {
			return nil, "", err
		}
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", cueLoadError(cuePath, err)
			}
			resolvedPath = cuePath
		}
		// If no config file is found, defaults apply.
	}

	if opts.WorkspaceRoot != "" {
		wsPath := WorkspaceFilePath(opts.WorkspaceRoot)
		overlay, err := readWorkspaceOverlay(wsPath)
		if err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load workspace settings").
				WithResource(wsPath).
				WithSuggestion("Check that the file contains valid TOML").
				WithSuggestion("Only script_directories, interpreter, probe_timeout and [terminal] are allowed").
				Wrap(err).
				BuildError()
		}
		if len(overlay) > 0 {
			if err := v.MergeConfigMap(overlay); err != nil {
				return nil, "", fmt.Errorf("failed to merge workspace settings: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check LUNESCRIPTS_* environment variables for typos").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func cueLoadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'lunescripts config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Fields are optional, so validation runs with Concrete(false) and the result
// is decoded to a map rather than a struct.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d exceeds limit of %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("%s: %w", path, userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	// Merge keeps defaults for absent keys and leaves env overrides on top.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one already exists.
// It returns the path of the file.
func CreateDefaultConfig(opts LoadOptions) (string, error) {
	cfgPath, err := UserConfigPath(opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// lunescripts configuration file\n\n")

	sb.WriteString("script_directories: [")
	for i, dir := range cfg.ScriptDirectories {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", dir)
	}
	sb.WriteString("]\n")

	fmt.Fprintf(&sb, "interpreter: %q\n", cfg.Interpreter)
	fmt.Fprintf(&sb, "probe_timeout: %q\n", cfg.ProbeTimeout.String())

	sb.WriteString("\nterminal: {\n")
	fmt.Fprintf(&sb, "\tname: %q\n", cfg.Terminal.Name)
	fmt.Fprintf(&sb, "\tbackend: %q\n", cfg.Terminal.Backend)
	if cfg.Terminal.Shell != "" {
		fmt.Fprintf(&sb, "\tshell: %q\n", cfg.Terminal.Shell)
	}
	fmt.Fprintf(&sb, "\texit_timeout: %q\n", cfg.Terminal.ExitTimeout.String())
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
