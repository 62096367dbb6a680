package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gorewood/docflow/internal/draft"
	"github.com/gorewood/docflow/internal/envfile"
	"github.com/gorewood/docflow/internal/output"
)

// DefaultFile is the settings file picked up from the working directory when
// no --config path is given.
const DefaultFile = "docflow.yaml"

// EnvPrefix prefixes environment overrides, e.g. DOCFLOW_WORKDIR.
const EnvPrefix = "DOCFLOW_"

// Settings is the resolved runtime configuration handed to each stage.
type Settings struct {
	WorkDir       string
	ConfigDir     string
	DocsDir       string
	Provider      string
	Model         string
	BaseURL       string
	Temperature   float64
	MaxTokens     int
	MaxToolRounds int
	Timeout       time.Duration
	SlugCollision string
	Sanitize      bool
	LogLevel      string
	LogFormat     string
}

// Setting keys, as used in docflow.yaml and (upper-cased) in DOCFLOW_* vars.
const (
	KeyWorkDir       = "workdir"
	KeyConfigDir     = "config_dir"
	KeyDocsDir       = "docs_dir"
	KeyProvider      = "provider"
	KeyModel         = "model"
	KeyBaseURL       = "base_url"
	KeyTemperature   = "temperature"
	KeyMaxTokens     = "max_tokens"
	KeyMaxToolRounds = "max_tool_rounds"
	KeyTimeout       = "timeout"
	KeySlugCollision = "slug_collision"
	KeySanitize      = "sanitize"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
)

var defaults = map[string]any{
	KeyWorkDir:       "workdir",
	KeyConfigDir:     "config",
	KeyDocsDir:       "docs",
	KeyProvider:      "nvidia",
	KeyModel:         "llama-70b",
	KeyBaseURL:       "",
	KeyTemperature:   0.2,
	KeyMaxTokens:     4096,
	KeyMaxToolRounds: 25,
	KeyTimeout:       "5m",
	KeySlugCollision: draft.CollisionOverwrite,
	KeySanitize:      false,
	KeyLogLevel:      "warn",
	KeyLogFormat:     "text",
}

// Load resolves Settings from defaults, the settings file, and DOCFLOW_*
// values in env, in increasing order of precedence.
//
// An empty path means DefaultFile, which may be absent. An explicit path
// that does not exist is an error.
func Load(env *envfile.Env, path string) (*Settings, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := readSettingsFile(v, path); err != nil {
		return nil, err
	}

	for key := range defaults {
		if val, ok := env.Lookup(EnvPrefix + strings.ToUpper(key)); ok && val != "" {
			v.Set(key, val)
		}
	}

	s := &Settings{
		WorkDir:       v.GetString(KeyWorkDir),
		ConfigDir:     v.GetString(KeyConfigDir),
		DocsDir:       v.GetString(KeyDocsDir),
		Provider:      strings.ToLower(v.GetString(KeyProvider)),
		Model:         v.GetString(KeyModel),
		BaseURL:       v.GetString(KeyBaseURL),
		Temperature:   v.GetFloat64(KeyTemperature),
		MaxTokens:     v.GetInt(KeyMaxTokens),
		MaxToolRounds: v.GetInt(KeyMaxToolRounds),
		Timeout:       v.GetDuration(KeyTimeout),
		SlugCollision: strings.ToLower(v.GetString(KeySlugCollision)),
		Sanitize:      v.GetBool(KeySanitize),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks enumerated and numeric settings.
func (s *Settings) Validate() error {
	if !slices.Contains([]string{draft.CollisionOverwrite, draft.CollisionError}, s.SlugCollision) {
		return output.NewUserError(fmt.Sprintf(
			"invalid %s %q: use %q or %q", KeySlugCollision, s.SlugCollision, draft.CollisionOverwrite, draft.CollisionError))
	}
	if !slices.Contains([]string{"text", "json"}, s.LogFormat) {
		return output.NewUserError(fmt.Sprintf("invalid %s %q: use \"text\" or \"json\"", KeyLogFormat, s.LogFormat))
	}
	if s.WorkDir == "" || s.ConfigDir == "" || s.DocsDir == "" {
		return output.NewUserError("workdir, config_dir and docs_dir must not be empty")
	}
	if s.MaxToolRounds <= 0 {
		return output.NewUserError(fmt.Sprintf("%s must be positive", KeyMaxToolRounds))
	}
	if s.Timeout <= 0 {
		return output.NewUserError(fmt.Sprintf("%s must be a positive duration", KeyTimeout))
	}
	return nil
}

func readSettingsFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return output.NewUserErrorWithCause("settings file "+path+" not readable", err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return output.NewUserErrorWithCause("parsing settings file "+path, err)
	}
	return nil
}
