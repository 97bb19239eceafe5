package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Source SourceConfig `mapstructure:"source"`
	Viewer ViewerConfig `mapstructure:"viewer"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	State  StateConfig  `mapstructure:"state"`
}

// SourceConfig selects where the route comes from. At most one of URL, Dir
// and File may be set.
type SourceConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
	Dir   string `mapstructure:"dir"`
	File  string `mapstructure:"file"`
	// Offline skips the network and uses the cached route for URL.
	Offline bool `mapstructure:"offline"`
}

type ViewerConfig struct {
	ClickWindow     time.Duration `mapstructure:"click_window"`
	TransitionDelay time.Duration `mapstructure:"transition_delay"`
	SwipeThreshold  float64       `mapstructure:"swipe_threshold"`
	CellWidthPx     int           `mapstructure:"cell_width_px"`
	CellHeightPx    int           `mapstructure:"cell_height_px"`
	Thumbnails      bool          `mapstructure:"thumbnails"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	Library   string `mapstructure:"library"`
	ViewToken string `mapstructure:"view_token"`
	// AdminHash is a bcrypt hash; uploads are refused when empty.
	AdminHash string `mapstructure:"admin_hash"`
	ThumbSize int    `mapstructure:"thumb_size"`
}

type LogConfig struct {
	Path   string `mapstructure:"path"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file; a missing explicit file is an error.
	Path string
	// Flags, when set, override file and env values for the keys in FlagKeys.
	Flags *pflag.FlagSet
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"url":     "source.url",
	"token":   "source.token",
	"dir":     "source.dir",
	"file":    "source.file",
	"offline": "source.offline",
	"addr":    "server.addr",
	"library": "server.library",
	"log":     "log.path",
}

// DefaultPath is ~/.config/fotoroute/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fotoroute", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.url", "")
	v.SetDefault("source.token", "")
	v.SetDefault("source.dir", "")
	v.SetDefault("source.file", "")
	v.SetDefault("source.offline", false)
	v.SetDefault("viewer.click_window", "300ms")
	v.SetDefault("viewer.transition_delay", "150ms")
	v.SetDefault("viewer.swipe_threshold", 50.0)
	v.SetDefault("viewer.cell_width_px", 8)
	v.SetDefault("viewer.cell_height_px", 16)
	v.SetDefault("viewer.thumbnails", true)
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.library", "")
	v.SetDefault("server.view_token", "")
	v.SetDefault("server.admin_hash", "")
	v.SetDefault("server.thumb_size", 800)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("state.dir", "")
}

// Load reads configuration from file, env and flags, in increasing
// precedence. Env var overrides use prefix FOTOROUTE_.
func Load(opts Options) (Config, error) {
	v := viper.New()
	setDefaults(v)

	path := strings.TrimSpace(opts.Path)
	explicit := path != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv("FOTOROUTE_CONFIG"))
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
			v.SetConfigType("toml")
		}
	}

	v.SetEnvPrefix("FOTOROUTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate rejects settings the viewer and server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Viewer.ClickWindow <= 0 {
		errs = append(errs, errors.New("viewer.click_window must be positive"))
	}
	if c.Viewer.TransitionDelay < 0 {
		errs = append(errs, errors.New("viewer.transition_delay must not be negative"))
	}
	if c.Viewer.SwipeThreshold <= 0 {
		errs = append(errs, errors.New("viewer.swipe_threshold must be positive"))
	}
	if c.Viewer.CellWidthPx <= 0 || c.Viewer.CellHeightPx <= 0 {
		errs = append(errs, errors.New("viewer cell size must be positive"))
	}
	if c.Server.ThumbSize <= 0 {
		errs = append(errs, errors.New("server.thumb_size must be positive"))
	}
	n := 0
	for _, s := range []string{c.Source.URL, c.Source.Dir, c.Source.File} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	if n > 1 {
		errs = append(errs, errors.New("choose one of source.url, source.dir and source.file"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// SourceKind reports which source is configured: "url", "dir", "file" or "".
func (c Config) SourceKind() string {
	switch {
	case strings.TrimSpace(c.Source.URL) != "":
		return "url"
	case strings.TrimSpace(c.Source.Dir) != "":
		return "dir"
	case strings.TrimSpace(c.Source.File) != "":
		return "file"
	}
	return ""
}
