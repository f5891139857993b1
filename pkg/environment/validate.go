/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Domain prefix: dot-separated DNS labels.
var domainPrefixPattern = regexp.MustCompile(`^(?i)[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*$`)

// Markers of values that were left for the developer to fill in. A marker
// only counts as a whole word, so 'todoist' or 'aBxxxC9' are real values.
var placeholderPattern = regexp.MustCompile(`(^|[^a-z0-9])(todo|tbd|replace|changeme|change-me|your|x{3,})([^a-z0-9]|$)|<[^>]*>`)

// FieldIssue is a problem with a single setting.
type FieldIssue struct {
	Path    string // Dotted path of the setting, eg, 'auth0.clientId'
	Message string // What is wrong with it
}

func (issue FieldIssue) String() string {
	return fmt.Sprintf("%s: %s", issue.Path, issue.Message)
}

// ValidationError is returned by Validate and lists every problem found.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "invalid environment settings: " + e.Issues[0].String()
	}

	lines := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		lines = append(lines, issue.String())
	}
	return fmt.Sprintf("invalid environment settings (%d problems): %s", len(e.Issues), strings.Join(lines, "; "))
}

// IsPlaceholder reports whether value is empty or looks like a value that was
// never filled in, eg, 'YOUR_CLIENT_ID' or '@TODO'.
func IsPlaceholder(value string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return true
	}
	return placeholderPattern.MatchString(trimmed)
}

// Check that value is an absolute http(s) URL with a host.
func validateURL(value string) string {
	if strings.TrimSpace(value) == "" {
		return "required value is empty"
	}
	if IsPlaceholder(value) {
		return fmt.Sprintf("'%s' is a placeholder, replace it with a real URL", value)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Sprintf("'%s' is not a valid URL: %v", value, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Sprintf("'%s' must use the http or https scheme", value)
	}
	if parsed.Host == "" || parsed.Hostname() == "" {
		return fmt.Sprintf("'%s' is missing the host", value)
	}
	if parsed.User != nil {
		return fmt.Sprintf("'%s' must not contain credentials", value)
	}
	return ""
}

// Validate checks that all six settings hold usable values. It returns a
// *ValidationError listing every problem, or nil.
func (env Environment) Validate() error {
	issues := []FieldIssue{}
	addIssue := func(path, message string) {
		if message != "" {
			issues = append(issues, FieldIssue{Path: path, Message: message})
		}
	}

	addIssue(PathAPIServerURL, validateURL(env.APIServerURL))

	switch {
	case strings.TrimSpace(env.Auth0.URL) == "":
		addIssue(PathAuth0URL, "required value is empty")
	case IsPlaceholder(env.Auth0.URL):
		addIssue(PathAuth0URL, fmt.Sprintf("'%s' is a placeholder, replace it with your Auth0 domain prefix", env.Auth0.URL))
	case strings.Contains(env.Auth0.URL, "://"):
		addIssue(PathAuth0URL, fmt.Sprintf("'%s' must be a domain prefix, not a URL", env.Auth0.URL))
	case !domainPrefixPattern.MatchString(env.Auth0.URL):
		addIssue(PathAuth0URL, fmt.Sprintf("'%s' is not a valid domain prefix", env.Auth0.URL))
	}

	addIssue(PathAuth0Audience, validateURL(env.Auth0.Audience))

	switch {
	case strings.TrimSpace(env.Auth0.ClientID) == "":
		addIssue(PathAuth0ClientID, "required value is empty")
	case IsPlaceholder(env.Auth0.ClientID):
		addIssue(PathAuth0ClientID, fmt.Sprintf("'%s' is a placeholder, replace it with the client ID of your Auth0 application", env.Auth0.ClientID))
	case strings.ContainsAny(env.Auth0.ClientID, " \t\r\n"):
		addIssue(PathAuth0ClientID, "must not contain whitespace")
	}

	addIssue(PathAuth0CallbackURL, validateURL(env.Auth0.CallbackURL))

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Is the URL pointing to the local machine?
func isLoopbackURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Warnings returns problems that do not make the settings unusable but are
// likely mistakes, such as a production build talking to localhost.
func (env Environment) Warnings() []FieldIssue {
	warnings := []FieldIssue{}
	if !env.Production {
		return warnings
	}

	for _, field := range env.Fields() {
		if field.Kind != FieldKindURL {
			continue
		}
		// The audience is an identifier and is never dialed.
		if field.Path == PathAuth0Audience {
			continue
		}
		if isLoopbackURL(field.Value) {
			warnings = append(warnings, FieldIssue{Path: field.Path, Message: fmt.Sprintf("production build points to the local machine ('%s')", field.Value)})
		} else if strings.HasPrefix(field.Value, "http://") {
			warnings = append(warnings, FieldIssue{Path: field.Path, Message: fmt.Sprintf("production build uses plain http ('%s')", field.Value)})
		}
	}
	return warnings
}
