/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package environment holds the environment-specific settings consumed by the
// Coffee Shop frontend: the API server address and the Auth0 login settings.
package environment

import (
	"fmt"
	"strconv"
	"strings"
)

// Build mode of the frontend, used to pick the settings variant.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// All known modes, in the order they are listed to users.
var AllModes = []Mode{ModeDevelopment, ModeProduction}

// ParseMode parses a mode name. Accepts the common short forms 'dev' and 'prod'.
func ParseMode(str string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "development", "dev":
		return ModeDevelopment, nil
	case "production", "prod":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("invalid mode '%s', expecting one of: development, production", str)
	}
}

// Auth0 settings used by the login flow of the frontend.
type Auth0Config struct {
	URL         string `yaml:"url" json:"url"`                 // Auth0 domain prefix, eg, 'dev-6jfqn48i.us'
	Audience    string `yaml:"audience" json:"audience"`       // API audience configured in Auth0
	ClientID    string `yaml:"clientId" json:"clientId"`       // Client ID of the Auth0 application
	CallbackURL string `yaml:"callbackURL" json:"callbackURL"` // Where Auth0 redirects to after login
}

// Environment is the settings record of one build mode. It is a plain value:
// copies never share state, which is what keeps the active record immutable.
type Environment struct {
	Production   bool        `yaml:"production" json:"production"`
	APIServerURL string      `yaml:"apiServerUrl" json:"apiServerUrl"`
	Auth0        Auth0Config `yaml:"auth0" json:"auth0"`
}

// Mode returns the build mode that the production flag corresponds to.
func (env Environment) Mode() Mode {
	if env.Production {
		return ModeProduction
	}
	return ModeDevelopment
}

type FieldKind string

const (
	FieldKindBool   FieldKind = "boolean"
	FieldKindString FieldKind = "string"
	FieldKindURL    FieldKind = "url"
)

// Field is a flattened view of one setting.
type Field struct {
	Path  string    // Dotted path, eg, 'auth0.clientId'
	Kind  FieldKind // Type of the value
	Value string    // Value formatted as a string
}

// Field paths, in declaration order.
const (
	PathProduction       = "production"
	PathAPIServerURL     = "apiServerUrl"
	PathAuth0URL         = "auth0.url"
	PathAuth0Audience    = "auth0.audience"
	PathAuth0ClientID    = "auth0.clientId"
	PathAuth0CallbackURL = "auth0.callbackURL"
)

// FieldPaths lists the paths of all settings in declaration order.
var FieldPaths = []string{
	PathProduction,
	PathAPIServerURL,
	PathAuth0URL,
	PathAuth0Audience,
	PathAuth0ClientID,
	PathAuth0CallbackURL,
}

// Fields returns all six settings in declaration order.
func (env Environment) Fields() []Field {
	return []Field{
		{Path: PathProduction, Kind: FieldKindBool, Value: strconv.FormatBool(env.Production)},
		{Path: PathAPIServerURL, Kind: FieldKindURL, Value: env.APIServerURL},
		{Path: PathAuth0URL, Kind: FieldKindString, Value: env.Auth0.URL},
		{Path: PathAuth0Audience, Kind: FieldKindURL, Value: env.Auth0.Audience},
		{Path: PathAuth0ClientID, Kind: FieldKindString, Value: env.Auth0.ClientID},
		{Path: PathAuth0CallbackURL, Kind: FieldKindURL, Value: env.Auth0.CallbackURL},
	}
}

// Lookup returns the field with the given dotted path.
func (env Environment) Lookup(path string) (Field, bool) {
	for _, field := range env.Fields() {
		if field.Path == path {
			return field, true
		}
	}
	return Field{}, false
}

// With returns a copy of env with the setting at path replaced by value.
// Booleans are parsed with strconv.ParseBool.
func (env Environment) With(path string, value string) (Environment, error) {
	switch path {
	case PathProduction:
		isProduction, err := strconv.ParseBool(value)
		if err != nil {
			return env, fmt.Errorf("invalid value '%s' for '%s': expecting true or false", value, path)
		}
		env.Production = isProduction
	case PathAPIServerURL:
		env.APIServerURL = value
	case PathAuth0URL:
		env.Auth0.URL = value
	case PathAuth0Audience:
		env.Auth0.Audience = value
	case PathAuth0ClientID:
		env.Auth0.ClientID = value
	case PathAuth0CallbackURL:
		env.Auth0.CallbackURL = value
	default:
		return env, fmt.Errorf("unknown setting '%s', expecting one of: %s", path, strings.Join(FieldPaths, ", "))
	}
	return env, nil
}

// One differing setting between two environments.
type FieldChange struct {
	Path string
	From string
	To   string
}

// Diff lists the settings whose values differ between a and b, in declaration order.
func Diff(a, b Environment) []FieldChange {
	changes := []FieldChange{}
	bFields := b.Fields()
	for ndx, aField := range a.Fields() {
		if aField.Value != bFields[ndx].Value {
			changes = append(changes, FieldChange{
				Path: aField.Path,
				From: aField.Value,
				To:   bFields[ndx].Value,
			})
		}
	}
	return changes
}
