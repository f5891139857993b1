/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Output format of Render.
type Format string

const (
	FormatTypeScript Format = "ts"
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatDotEnv     Format = "dotenv"
)

// All render formats, in the order they are listed to users.
var AllFormats = []Format{FormatTypeScript, FormatJSON, FormatYAML, FormatDotEnv}

// Variables read by the Flask backend from its .env file.
const (
	backendEnvAuth0Domain = "AUTH0_DOMAIN"
	backendEnvAudience    = "API_AUDIENCE"
)

// ParseFormat parses a render format name.
func ParseFormat(str string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "ts", "typescript":
		return FormatTypeScript, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "dotenv", "env":
		return FormatDotEnv, nil
	default:
		return "", fmt.Errorf("invalid format '%s', expecting one of: ts, json, yaml, dotenv", str)
	}
}

// Angular environment file, consumed by the frontend build.
var typeScriptTemplate = template.Must(template.New("environment.ts").Funcs(template.FuncMap{
	"quote": quoteTypeScript,
}).Parse(`/*
 * Generated by coffeeshop, do not edit. Edit coffeeshop.yaml and run 'coffeeshop env generate' instead.
 */

export const environment = {
  production: {{ .Production }},
  apiServerUrl: {{ quote .APIServerURL }}, // the running Flask API server url
  auth0: {
    url: {{ quote .Auth0.URL }}, // the auth0 domain prefix
    audience: {{ quote .Auth0.Audience }}, // the audience set for the auth0 app
    clientId: {{ quote .Auth0.ClientID }}, // the client id generated for the auth0 app
    callbackURL: {{ quote .Auth0.CallbackURL }}, // the base url of the running ionic application
  }
};
`))

// Single-quoted TypeScript string literal.
func quoteTypeScript(str string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + replacer.Replace(str) + "'"
}

// Ordered form of the settings file, so development is always written first.
type settingsFileOut struct {
	Environments settingsFileOutEnvironments `yaml:"environments"`
}

type settingsFileOutEnvironments struct {
	Development *Environment `yaml:"development,omitempty"`
	Production  *Environment `yaml:"production,omitempty"`
}

func marshalYAML(value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderSettingsFile renders a settings file with the given variants.
func RenderSettingsFile(envs map[Mode]Environment) ([]byte, error) {
	out := settingsFileOut{}
	if env, ok := envs[ModeDevelopment]; ok {
		out.Environments.Development = &env
	}
	if env, ok := envs[ModeProduction]; ok {
		out.Environments.Production = &env
	}

	body, err := marshalYAML(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings file: %w", err)
	}

	header := "# Coffee Shop environment settings, one entry per build mode.\n" +
		"# Values can be overridden with COFFEESHOP_* environment variables.\n"
	return append([]byte(header), body...), nil
}

// DotEnvVariables returns the settings as environment variables: the
// COFFEESHOP_* overrides plus the variables the backend reads.
func DotEnvVariables(env Environment) map[string]string {
	return map[string]string{
		EnvProduction:         strconv.FormatBool(env.Production),
		EnvAPIServerURL:       env.APIServerURL,
		EnvAuth0URL:           env.Auth0.URL,
		EnvAuth0Audience:      env.Auth0.Audience,
		EnvAuth0ClientID:      env.Auth0.ClientID,
		EnvAuth0Callback:      env.Auth0.CallbackURL,
		backendEnvAuth0Domain: env.Auth0.Domain(),
		backendEnvAudience:    env.Auth0.Audience,
	}
}

// Render renders env in the given format.
func Render(env Environment, format Format) ([]byte, error) {
	switch format {
	case FormatTypeScript:
		var buf bytes.Buffer
		if err := typeScriptTemplate.Execute(&buf, env); err != nil {
			return nil, fmt.Errorf("failed to render TypeScript environment: %w", err)
		}
		return buf.Bytes(), nil

	case FormatJSON:
		content, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal environment to JSON: %w", err)
		}
		return append(content, '\n'), nil

	case FormatYAML:
		return RenderSettingsFile(map[Mode]Environment{env.Mode(): env})

	case FormatDotEnv:
		content, err := godotenv.Marshal(DotEnvVariables(env))
		if err != nil {
			return nil, fmt.Errorf("failed to render dotenv: %w", err)
		}
		return []byte(content + "\n"), nil

	default:
		return nil, fmt.Errorf("unsupported format '%s'", format)
	}
}
