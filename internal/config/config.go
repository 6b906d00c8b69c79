package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// An explicit SetConfigFile upstream wins over the search paths.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "markpad"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "markpad"))
		}
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file in the search paths is fine; a broken or missing explicit file is not.
		if !errors.As(err, &notFound) && v.ConfigFileUsed() != "" {
			return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// Environment variables: MARKPAD_* (highest among these sources)
	v.SetEnvPrefix("markpad")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("storage.dsn")) == "" {
		v.Set("storage.dsn", "sqlite://"+ResolveDBPath(v))
	}
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/markpad or ~/.local/share/markpad
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "markpad")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "markpad")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "markpad", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/markpad.db"},
		{Key: "http_addr", Default: "127.0.0.1:7466", Comment: "Listen address for `markpad serve`"},

		{Key: "storage.dsn", Default: "", Comment: "Durable slot: sqlite://path, file://path or mem:// (empty = sqlite in data_dir)"},
		{Key: "storage.key", Default: "documents", Comment: "Name of the slot holding the document collection"},

		{Key: "log.level", Default: "info", Comment: "trace, debug, info, warn or error"},
		{Key: "log.format", Default: "console", Comment: "console or json"},

		{Key: "render.highlight", Default: true, Comment: "Syntax-highlight fenced code blocks"},
		{Key: "render.hard_wraps", Default: false, Comment: "Render single newlines as <br>"},

		{Key: "preview.style", Default: "dark", Comment: "glamour style for terminal previews (dark, light, dracula, notty)"},
		{Key: "preview.width", Default: 80, Comment: "Word wrap width for terminal previews"},

		{Key: "editor.command", Default: "", Comment: "Editor used by `markpad edit`; empty uses $VISUAL or $EDITOR"},
	}
}

// ResolveDBPath returns the sqlite DB file path under data_dir.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	// Expand ~ for convenience
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "markpad.db")
}

// CheckConfigValidity reports every invalid setting in a single error.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	add := func(format string, args ...any) { problems = append(problems, fmt.Sprintf(format, args...)) }

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	dsn := v.GetString("storage.dsn")
	if dsn != "" && !strings.HasPrefix(dsn, "sqlite://") && !strings.HasPrefix(dsn, "file://") && dsn != "mem://" {
		add("storage.dsn %q must start with sqlite://, file:// or be mem://", dsn)
	}
	if strings.TrimSpace(v.GetString("storage.key")) == "" {
		add("storage.key is required")
	}
	if addr := v.GetString("http_addr"); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			add("http_addr %q is not host:port", addr)
		}
	}
	switch strings.ToLower(v.GetString("log.level")) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		add("log.level %q is not a known level", v.GetString("log.level"))
	}
	switch v.GetString("log.format") {
	case "console", "json":
	default:
		add("log.format must be console or json")
	}
	if v.GetInt("preview.width") <= 0 {
		add("preview.width must be greater than 0")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config:\n  - " + strings.Join(problems, "\n  - "))
}
