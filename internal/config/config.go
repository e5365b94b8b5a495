package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rflorenc/formpatch/internal/credentials"
	"github.com/rflorenc/formpatch/internal/platform"
)

// EnvPrefix is prepended to every environment override, e.g.
// FORMPATCH_BASE_URL.
const EnvPrefix = "FORMPATCH"

// Setting keys, shared by flags, environment variables and the settings file.
const (
	KeyConfig      = "config"
	KeyCredentials = "credentials"
	KeyBaseURL     = "base-url"
	KeyPageSize    = "page-size"
	KeyPace        = "pace"
	KeyVerbose     = "verbose"
)

// Config holds all settings (CLI flags, environment and settings file).
type Config struct {
	CredentialsFile string
	BaseURL         string
	PageSize        int
	Pace            time.Duration
	Verbose         bool
}

// BindFlags registers the settings flags on fs and binds them into v.
// Flags take precedence over environment variables, which take precedence
// over the settings file.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.String(KeyConfig, "", "Path to a YAML settings file")
	fs.String(KeyCredentials, credentials.DefaultPath, "Path to the file holding the API key")
	fs.String(KeyBaseURL, platform.DefaultBaseURL, "HubSpot API base URL")
	fs.Int(KeyPageSize, platform.DefaultPageSize, "Forms requested per page")
	fs.Duration(KeyPace, platform.DefaultPace, "Pause between page fetches and after each update")
	fs.BoolP(KeyVerbose, "v", false, "Enable debug logging on stderr")

	for _, key := range []string{KeyConfig, KeyCredentials, KeyBaseURL, KeyPageSize, KeyPace, KeyVerbose} {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load resolves the final configuration, reading the settings file first if
// one was named.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	c := &Config{
		CredentialsFile: v.GetString(KeyCredentials),
		BaseURL:         v.GetString(KeyBaseURL),
		PageSize:        v.GetInt(KeyPageSize),
		Pace:            v.GetDuration(KeyPace),
		Verbose:         v.GetBool(KeyVerbose),
	}

	// Apply defaults for anything still unset
	if c.CredentialsFile == "" {
		c.CredentialsFile = credentials.DefaultPath
	}
	if c.BaseURL == "" {
		c.BaseURL = platform.DefaultBaseURL
	}
	if c.PageSize <= 0 {
		c.PageSize = platform.DefaultPageSize
	}
	if c.Pace < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", KeyPace, c.Pace)
	}
	return c, nil
}
