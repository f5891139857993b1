/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Name of the settings file looked up from the working directory.
const DefaultSettingsFileName = "coffeeshop.yaml"

// Environment variables that override individual settings.
const (
	EnvMode          = "COFFEESHOP_MODE"
	EnvProduction    = "COFFEESHOP_PRODUCTION"
	EnvAPIServerURL  = "COFFEESHOP_API_SERVER_URL"
	EnvAuth0URL      = "COFFEESHOP_AUTH0_URL"
	EnvAuth0Audience = "COFFEESHOP_AUTH0_AUDIENCE"
	EnvAuth0ClientID = "COFFEESHOP_AUTH0_CLIENT_ID"
	EnvAuth0Callback = "COFFEESHOP_AUTH0_CALLBACK_URL"
	EnvDotEnvFile    = "ENV_FILE"
)

const (
	dotEnvFileName     = ".env"
	dotEnvLocalName    = ".env.local"
	settingsFileFormat = "environments.<mode>.<setting>"
)

// Which environment variable overrides which setting, in declaration order.
var envOverrides = []struct {
	Variable string
	Path     string
}{
	{EnvProduction, PathProduction},
	{EnvAPIServerURL, PathAPIServerURL},
	{EnvAuth0URL, PathAuth0URL},
	{EnvAuth0Audience, PathAuth0Audience},
	{EnvAuth0ClientID, PathAuth0ClientID},
	{EnvAuth0Callback, PathAuth0CallbackURL},
}

// On-disk form of the auth0 section. Pointers tell missing keys apart from empty values.
type settingsFileAuth0 struct {
	URL         *string `yaml:"url"`
	Audience    *string `yaml:"audience"`
	ClientID    *string `yaml:"clientId"`
	CallbackURL *string `yaml:"callbackURL"`
}

// On-disk form of one variant.
type settingsFileEnvironment struct {
	Production   *bool              `yaml:"production"`
	APIServerURL *string            `yaml:"apiServerUrl"`
	Auth0        *settingsFileAuth0 `yaml:"auth0"`
}

// On-disk form of the settings file (coffeeshop.yaml).
type settingsFileDocument struct {
	Environments map[string]*settingsFileEnvironment `yaml:"environments"`
}

// SettingsFile is a parsed settings file: one Environment per build mode it defines.
type SettingsFile struct {
	Path         string
	Environments map[Mode]Environment
}

// Convert the on-disk variant into an Environment. All six keys must be present.
func (raw *settingsFileEnvironment) toEnvironment(variant string) (Environment, error) {
	if raw == nil {
		return Environment{}, fmt.Errorf("environments.%s is empty", variant)
	}

	missing := []string{}
	requireString := func(path string, value *string) string {
		if value == nil {
			missing = append(missing, path)
			return ""
		}
		return *value
	}

	var env Environment
	if raw.Production == nil {
		missing = append(missing, PathProduction)
	} else {
		env.Production = *raw.Production
	}
	env.APIServerURL = requireString(PathAPIServerURL, raw.APIServerURL)
	if raw.Auth0 == nil {
		missing = append(missing, PathAuth0URL, PathAuth0Audience, PathAuth0ClientID, PathAuth0CallbackURL)
	} else {
		env.Auth0.URL = requireString(PathAuth0URL, raw.Auth0.URL)
		env.Auth0.Audience = requireString(PathAuth0Audience, raw.Auth0.Audience)
		env.Auth0.ClientID = requireString(PathAuth0ClientID, raw.Auth0.ClientID)
		env.Auth0.CallbackURL = requireString(PathAuth0CallbackURL, raw.Auth0.CallbackURL)
	}

	if len(missing) > 0 {
		return Environment{}, fmt.Errorf("environments.%s is missing required settings: %v", variant, missing)
	}
	return env, nil
}

// ParseSettingsFile decodes the settings file content. Decoding is strict:
// unknown keys, unknown build modes and missing settings are all errors.
// JSON content is accepted as well.
func ParseSettingsFile(content []byte) (map[Mode]Environment, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var doc settingsFileDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("settings file is empty, expecting %s", settingsFileFormat)
		}
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if len(doc.Environments) == 0 {
		return nil, fmt.Errorf("settings file has no environments, expecting %s", settingsFileFormat)
	}

	result := make(map[Mode]Environment, len(doc.Environments))
	for variant, raw := range doc.Environments {
		mode := Mode(variant)
		if mode != ModeDevelopment && mode != ModeProduction {
			return nil, fmt.Errorf("unknown environment '%s' in settings file, expecting development or production", variant)
		}

		env, err := raw.toEnvironment(variant)
		if err != nil {
			return nil, err
		}
		if env.Mode() != mode {
			return nil, fmt.Errorf("environments.%s has production: %t, which does not match the build mode", variant, env.Production)
		}
		result[mode] = env
	}

	return result, nil
}

// LoadSettingsFile reads and parses the settings file at path.
func LoadSettingsFile(path string) (*SettingsFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	envs, err := ParseSettingsFile(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &SettingsFile{Path: path, Environments: envs}, nil
}

// LoadDotEnvFiles loads .env files into the process environment. Variables
// that are already set are never overwritten. If ENV_FILE is set, only that
// file is loaded and it must exist. Otherwise .env.local is loaded before
// .env, so it wins, and missing files are ignored.
func LoadDotEnvFiles() error {
	if envFile := os.Getenv(EnvDotEnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s file %s: %w", EnvDotEnvFile, envFile, err)
		}
		return nil
	}

	for _, fileName := range []string{dotEnvLocalName, dotEnvFileName} {
		if err := godotenv.Load(fileName); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", fileName, err)
		}
	}
	return nil
}

// LoadOptions controls how Load resolves the settings.
type LoadOptions struct {
	// Build mode. If empty, COFFEESHOP_MODE is used, and development if that is unset too.
	Mode Mode

	// Path to the settings file. If empty, DefaultSettingsFileName is used if it exists.
	// An explicitly given file must exist.
	SettingsFilePath string

	// Skip loading .env files.
	SkipDotEnv bool

	// Environment lookup, defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// ResolveMode returns the build mode: the explicit mode if given, otherwise
// the value of COFFEESHOP_MODE, otherwise development.
func ResolveMode(mode Mode, lookupEnv func(string) (string, bool)) (Mode, error) {
	if mode != "" {
		return ParseMode(string(mode))
	}
	if value, ok := lookupEnv(EnvMode); ok && value != "" {
		return ParseMode(value)
	}
	return ModeDevelopment, nil
}

// ApplyEnvOverrides returns a copy of env with the COFFEESHOP_* variables applied.
func ApplyEnvOverrides(env Environment, lookupEnv func(string) (string, bool)) (Environment, error) {
	for _, override := range envOverrides {
		value, ok := lookupEnv(override.Variable)
		if !ok {
			continue
		}

		var err error
		env, err = env.With(override.Path, value)
		if err != nil {
			return env, fmt.Errorf("invalid %s: %w", override.Variable, err)
		}
		log.Debug().Msgf("Setting '%s' overridden by %s", override.Path, override.Variable)
	}
	return env, nil
}

// Load resolves the settings for a build mode: built-in defaults, then the
// settings file variant, then environment variable overrides. The result is
// not validated.
func Load(opts LoadOptions) (*Environment, error) {
	if !opts.SkipDotEnv {
		if err := LoadDotEnvFiles(); err != nil {
			return nil, err
		}
	}

	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	mode, err := ResolveMode(opts.Mode, lookupEnv)
	if err != nil {
		return nil, err
	}
	env := Defaults(mode)

	// Resolve the settings file: an explicit path must exist, the default one is optional.
	settingsFilePath := opts.SettingsFilePath
	if settingsFilePath == "" {
		if _, err := os.Stat(DefaultSettingsFileName); err == nil {
			settingsFilePath = DefaultSettingsFileName
		}
	}

	if settingsFilePath != "" {
		settingsFile, err := LoadSettingsFile(settingsFilePath)
		if err != nil {
			return nil, err
		}
		if fileEnv, found := settingsFile.Environments[mode]; found {
			log.Debug().Msgf("Using %s settings from %s", mode, settingsFilePath)
			env = fileEnv
		} else {
			log.Debug().Msgf("Settings file %s has no %s environment, using built-in defaults", settingsFilePath, mode)
		}
	} else {
		log.Debug().Msgf("No settings file found, using built-in %s defaults", mode)
	}

	env, err = ApplyEnvOverrides(env, lookupEnv)
	if err != nil {
		return nil, err
	}
	if env.Mode() != mode {
		return nil, fmt.Errorf("%s=%t does not match the %s build mode", EnvProduction, env.Production, mode)
	}

	return &env, nil
}
