package app

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"crossreg/pkg/engine"
	"crossreg/pkg/errors"
	"crossreg/pkg/schema"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g.
// CROSSREG_HOME_DIR for home.dir.
const EnvPrefix = "CROSSREG"

// SystemConfig locates one system's roster export.
type SystemConfig struct {
	// Dir is searched for Pattern unless File names the roster directly.
	Dir     string
	Pattern string
	File    string

	// Label names the system in the report.
	Label string

	IdentityColumn int
	CourseColumn   int
}

// Config holds the application configuration. See LoadConfig for the
// sources and their precedence.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	Home SystemConfig
	Host SystemConfig

	// ActiveCodes are the host status codes counted as enrolled.
	ActiveCodes []string

	// Overrides is the path of the override file.
	Overrides string

	// Save is the path the report is also written to; empty prints only.
	Save string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"config":       "config",
	"verbose":      "verbose",
	"quiet":        "quiet",
	"no-color":     "no_color",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"log-output":   "log_output",
	"home-dir":     "home.dir",
	"home-pattern": "home.pattern",
	"home-file":    "home.file",
	"home-label":   "home.label",
	"host-dir":     "host.dir",
	"host-pattern": "host.pattern",
	"host-file":    "host.file",
	"host-label":   "host.label",
	"active-codes": "host.active_codes",
	"overrides":    "overrides",
	"save":         "save",
}

func setDefaults(v *viper.Viper) {
	home, host := schema.DefaultHomeLayout(), schema.DefaultHostLayout()

	v.SetDefault("home.dir", ".")
	v.SetDefault("home.pattern", "IntegCrsOff_*.csv")
	v.SetDefault("home.label", "Home System")
	v.SetDefault("home.identity_column", home.IdentityColumn)
	v.SetDefault("home.course_column", home.CourseColumn)

	v.SetDefault("host.dir", ".")
	v.SetDefault("host.pattern", "*Integrated Offerings Registrations*.csv")
	v.SetDefault("host.label", "Host System")
	v.SetDefault("host.identity_column", host.IdentityColumn)
	v.SetDefault("host.course_column", host.CourseColumn)
	v.SetDefault("host.active_codes", engine.DefaultActiveCodes)

	v.SetDefault("overrides", ".crossreg-overrides.yaml")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags that were set
// 2. Environment variables (CROSSREG_*)
// 3. .env files
// 4. Config file (path, or .crossreg.yaml in $HOME or the working directory)
// 5. Defaults
//
// flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.WrapConfig("flags", err)
				}
			}
		}
	}

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", "cannot read "+path, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".crossreg")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.NewConfigError("file", "cannot read config", err)
			}
		}
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		ConfigFile: v.ConfigFileUsed(),

		Home: SystemConfig{
			Dir:            v.GetString("home.dir"),
			Pattern:        v.GetString("home.pattern"),
			File:           v.GetString("home.file"),
			Label:          v.GetString("home.label"),
			IdentityColumn: v.GetInt("home.identity_column"),
			CourseColumn:   v.GetInt("home.course_column"),
		},
		Host: SystemConfig{
			Dir:            v.GetString("host.dir"),
			Pattern:        v.GetString("host.pattern"),
			File:           v.GetString("host.file"),
			Label:          v.GetString("host.label"),
			IdentityColumn: v.GetInt("host.identity_column"),
			CourseColumn:   v.GetInt("host.course_column"),
		},
		ActiveCodes: stringList(v.Get("host.active_codes")),
		Overrides:   v.GetString("overrides"),
		Save:        v.GetString("save"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	for _, sys := range []struct {
		name string
		cfg  SystemConfig
	}{{"home", c.Home}, {"host", c.Host}} {
		if sys.cfg.File == "" && sys.cfg.Pattern == "" {
			return errors.NewConfigError(sys.name, "a roster file or pattern is required", nil)
		}
		if sys.cfg.IdentityColumn < 0 || sys.cfg.CourseColumn < 0 {
			return errors.NewConfigError(sys.name, "column positions must not be negative", nil)
		}
	}
	if len(c.ActiveCodes) == 0 {
		return errors.NewConfigError("host", "at least one active status code is required", nil)
	}
	return nil
}

// stringList accepts a YAML list or a comma-separated string.
func stringList(raw any) []string {
	var items []string
	switch v := raw.(type) {
	case []string:
		items = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case string:
		items = strings.Split(v, ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// godotenv never replaces a variable that is already set, so the file
	// loaded first wins.
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
