/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

// Development returns the built-in development settings: the Flask API server
// and the Ionic app running locally against the shared Auth0 tenant.
func Development() Environment {
	return Environment{
		Production:   false,
		APIServerURL: "http://127.0.0.1:5000",
		Auth0: Auth0Config{
			URL:         "dev-6jfqn48i.us",
			Audience:    "http://localhost:5000",
			ClientID:    "632cdd55c566bc91751b04bd",
			CallbackURL: "http://localhost:8100",
		},
	}
}

// ProductionDefaults returns the built-in production settings. The client ID
// is intentionally empty: production builds use their own Auth0 application,
// which must come from the settings file or COFFEESHOP_AUTH0_CLIENT_ID.
func ProductionDefaults() Environment {
	env := Development()
	env.Production = true
	env.Auth0.ClientID = ""
	return env
}

// Defaults returns the built-in settings for the mode.
func Defaults(mode Mode) Environment {
	if mode == ModeProduction {
		return ProductionDefaults()
	}
	return Development()
}
