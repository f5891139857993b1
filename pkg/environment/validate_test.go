/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDevelopmentDefaults(t *testing.T) {
	if err := Development().Validate(); err != nil {
		t.Fatalf("expected development defaults to be valid, got: %v", err)
	}
}

func TestValidateReportsFieldIssues(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(env *Environment)
		wantPath string
	}{
		{"empty api server url", func(env *Environment) { env.APIServerURL = "" }, PathAPIServerURL},
		{"api server url without scheme", func(env *Environment) { env.APIServerURL = "127.0.0.1:5000" }, PathAPIServerURL},
		{"api server url with ftp scheme", func(env *Environment) { env.APIServerURL = "ftp://example.com" }, PathAPIServerURL},
		{"api server url without host", func(env *Environment) { env.APIServerURL = "http://" }, PathAPIServerURL},
		{"api server url with credentials", func(env *Environment) { env.APIServerURL = "https://user:pw@example.com" }, PathAPIServerURL},
		{"empty auth0 url", func(env *Environment) { env.Auth0.URL = " " }, PathAuth0URL},
		{"auth0 url given as url", func(env *Environment) { env.Auth0.URL = "https://dev-6jfqn48i.us.auth0.com" }, PathAuth0URL},
		{"auth0 url with invalid characters", func(env *Environment) { env.Auth0.URL = "dev_6jfqn48i.us" }, PathAuth0URL},
		{"auth0 url placeholder", func(env *Environment) { env.Auth0.URL = "@TODO" }, PathAuth0URL},
		{"audience not a url", func(env *Environment) { env.Auth0.Audience = "coffee" }, PathAuth0Audience},
		{"empty client id", func(env *Environment) { env.Auth0.ClientID = "" }, PathAuth0ClientID},
		{"client id placeholder", func(env *Environment) { env.Auth0.ClientID = "YOUR_CLIENT_ID" }, PathAuth0ClientID},
		{"client id with whitespace", func(env *Environment) { env.Auth0.ClientID = "abc def" }, PathAuth0ClientID},
		{"callback url placeholder", func(env *Environment) { env.Auth0.CallbackURL = "<callback-url>" }, PathAuth0CallbackURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Development()
			tt.modify(&env)

			err := env.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(validationErr.Issues) != 1 {
				t.Fatalf("expected exactly one issue, got %v", validationErr.Issues)
			}
			if validationErr.Issues[0].Path != tt.wantPath {
				t.Errorf("expected issue for '%s', got '%s'", tt.wantPath, validationErr.Issues[0].Path)
			}
		})
	}
}

func TestValidateListsAllIssues(t *testing.T) {
	err := Environment{}.Validate()
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(validationErr.Issues) != 5 {
		t.Errorf("expected 5 issues for an empty environment, got %d: %v", len(validationErr.Issues), validationErr.Issues)
	}
	if !strings.Contains(err.Error(), "5 problems") {
		t.Errorf("expected error message to mention the number of problems, got '%s'", err.Error())
	}
}

func TestIsPlaceholder(t *testing.T) {
	placeholders := []string{"", "   ", "@TODO replace", "YOUR_CLIENT_ID", "your-client-id", "<client-id>", "changeme", "xxxxxxxx", "https://api.example.com/TODO", "change-me"}
	for _, value := range placeholders {
		if !IsPlaceholder(value) {
			t.Errorf("expected '%s' to be a placeholder", value)
		}
	}

	realValues := []string{
		"632cdd55c566bc91751b04bd",
		"dev-6jfqn48i.us",
		"http://localhost:8100",
		"https://api.todoist-coffee.example.com",
		"aBxxxC9dEf",
		"https://yourcoffee.example.com",
	}
	for _, value := range realValues {
		if IsPlaceholder(value) {
			t.Errorf("expected '%s' not to be a placeholder", value)
		}
	}
}

func TestValidateAcceptsValuesContainingMarkerText(t *testing.T) {
	env := Development()
	env.APIServerURL = "https://api.todoist-coffee.example.com"
	env.Auth0.ClientID = "aBxxxC9dEf"
	if err := env.Validate(); err != nil {
		t.Errorf("expected valid settings, got %v", err)
	}
}

func TestWarnings(t *testing.T) {
	if warnings := Development().Warnings(); len(warnings) != 0 {
		t.Errorf("expected no warnings for development, got %v", warnings)
	}

	prod := Development()
	prod.Production = true
	warnings := prod.Warnings()
	paths := map[string]bool{}
	for _, warning := range warnings {
		paths[warning.Path] = true
	}
	if !paths[PathAPIServerURL] || !paths[PathAuth0CallbackURL] {
		t.Errorf("expected warnings for apiServerUrl and auth0.callbackURL, got %v", warnings)
	}
	if paths[PathAuth0Audience] {
		t.Errorf("audience is an identifier and must not be warned about, got %v", warnings)
	}

	prod.APIServerURL = "https://api.coffeeshop.example"
	prod.Auth0.CallbackURL = "https://coffeeshop.example"
	if warnings := prod.Warnings(); len(warnings) != 0 {
		t.Errorf("expected no warnings for https production settings, got %v", warnings)
	}
}
