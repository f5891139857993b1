/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

import (
	"net/url"
	"strings"
)

// Suffix appended to the domain prefix to form the tenant domain.
const auth0DomainSuffix = ".auth0.com"

// Path on the frontend that handles the login redirect.
const DefaultLoginCallbackPath = "/tabs/user-page"

// Domain returns the Auth0 tenant domain, eg, 'dev-6jfqn48i.us.auth0.com'.
// A URL that already ends in '.auth0.com' is used as-is.
func (cfg Auth0Config) Domain() string {
	domain := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(cfg.URL)), ".")
	if strings.HasSuffix(domain, auth0DomainSuffix) {
		return domain
	}
	return domain + auth0DomainSuffix
}

// Issuer returns the token issuer, eg, 'https://dev-6jfqn48i.us.auth0.com/'.
func (cfg Auth0Config) Issuer() string {
	return "https://" + cfg.Domain() + "/"
}

// JWKSURL returns the location of the tenant's signing keys.
func (cfg Auth0Config) JWKSURL() string {
	return "https://" + cfg.Domain() + "/.well-known/jwks.json"
}

// AuthorizeURL returns the tenant's authorization endpoint.
func (cfg Auth0Config) AuthorizeURL() string {
	return "https://" + cfg.Domain() + "/authorize"
}

// LoginLink builds the authorize link the frontend sends the user to. It uses
// the implicit flow (response_type=token) and redirects back to callbackPath
// under the callback URL.
func (cfg Auth0Config) LoginLink(callbackPath string) string {
	redirectURI := strings.TrimSuffix(cfg.CallbackURL, "/")
	if callbackPath != "" {
		redirectURI += "/" + strings.TrimPrefix(callbackPath, "/")
	}

	query := url.Values{}
	query.Set("audience", cfg.Audience)
	query.Set("response_type", "token")
	query.Set("client_id", cfg.ClientID)
	query.Set("redirect_uri", redirectURI)

	return cfg.AuthorizeURL() + "?" + query.Encode()
}
