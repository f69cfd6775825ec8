package signup

import (
	"context"

	"gamehub_backend/internal/domain"
)

// IdentityProvider manages authentication credentials and account identifiers.
// CreateAccount failures should be *domain.ProviderError values.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error)
	SetDisplayName(ctx context.Context, uid, displayName string) error
}

// Datastore is queryable document storage keyed by identifier.
type Datastore interface {
	QueryByField(ctx context.Context, collection, field, value string) ([]map[string]interface{}, error)
	CreateDocument(ctx context.Context, collection, key string, doc interface{}) error
}

// SessionHintStore reads values a client cached in an earlier session.
// The bool is false when no value is stored.
type SessionHintStore interface {
	Read(ctx context.Context, sessionID, key string) (string, bool, error)
}

// Reconciler receives identities whose follow-up writes failed, so they can be
// repaired outside the signup request.
type Reconciler interface {
	RecordInconsistency(ctx context.Context, inc domain.Inconsistency) error
}

// EventSink receives one audit event per provisioning attempt.
type EventSink interface {
	Publish(ctx context.Context, event domain.SignupEvent) error
}

// Recorder collects signup metrics.
type Recorder interface {
	ObserveOutcome(kind OutcomeKind, reason string)
	IncDuplicateQueryFailure(policy DuplicatePolicy)
	IncInconsistency(step domain.InconsistencyStep)
}

// ProfilePicker chooses the avatar identifier for a new profile document.
type ProfilePicker interface {
	Pick() string
}
