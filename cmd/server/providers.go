package main

import (
	"gamehub_backend/internal/sessionhint"
	"gamehub_backend/internal/signup"
)

// provideSessionHintReader narrows the hint store to the read side the
// orchestrator needs.
func provideSessionHintReader(store sessionhint.Store) signup.SessionHintStore {
	return store
}
