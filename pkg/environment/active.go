/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package environment

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrAlreadyActive is returned when activating settings a second time.
var ErrAlreadyActive = errors.New("environment settings are already active")

var (
	activeMu  sync.RWMutex
	activeEnv *Environment
)

// Activate makes env the settings of this process. Settings can be activated
// only once: later calls return ErrAlreadyActive and leave the first record in
// place. The record must pass Validate.
func Activate(env Environment) error {
	if err := env.Validate(); err != nil {
		return err
	}

	activeMu.Lock()
	defer activeMu.Unlock()

	if activeEnv != nil {
		return ErrAlreadyActive
	}

	log.Debug().Msgf("Activated %s environment settings (api=%s, auth0=%s)", env.Mode(), env.APIServerURL, env.Auth0.Domain())
	activeEnv = &env
	return nil
}

// Active returns a copy of the activated settings.
func Active() (Environment, bool) {
	activeMu.RLock()
	defer activeMu.RUnlock()

	if activeEnv == nil {
		return Environment{}, false
	}
	return *activeEnv, true
}

// resetActive clears the activated settings. Only used by tests.
func resetActive() {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeEnv = nil
}
