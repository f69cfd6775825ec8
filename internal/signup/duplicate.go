package signup

import (
	"context"
	"fmt"

	"gamehub_backend/internal/config"
	"gamehub_backend/internal/domain"

	"go.uber.org/zap"
)

// DuplicatePolicy decides what a failed uniqueness query means.
type DuplicatePolicy string

const (
	// DuplicatePolicyFailOpen treats a failed query as "not found" so signup stays
	// available; a duplicate may slip through while the datastore is degraded.
	DuplicatePolicyFailOpen DuplicatePolicy = "fail_open"
	// DuplicatePolicyFailClosed treats a failed query as "already in use".
	DuplicatePolicyFailClosed DuplicatePolicy = "fail_closed"
)

// ParseDuplicatePolicy validates a configured policy name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case DuplicatePolicyFailOpen, DuplicatePolicyFailClosed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// DuplicateChecker looks up existing profile documents by email.
type DuplicateChecker struct {
	store      Datastore
	collection string
	policy     DuplicatePolicy
	recorder   Recorder
	logger     *zap.Logger
}

// NewDuplicateChecker creates a checker against the configured users collection.
func NewDuplicateChecker(store Datastore, cfg *config.Config, recorder Recorder, logger *zap.Logger) (*DuplicateChecker, error) {
	policy, err := ParseDuplicatePolicy(cfg.SignupDuplicatePolicy)
	if err != nil {
		return nil, err
	}
	return &DuplicateChecker{
		store:      store,
		collection: cfg.FirestoreUsersCollection,
		policy:     policy,
		recorder:   recorder,
		logger:     logger.Named("DuplicateChecker"),
	}, nil
}

// Exists reports whether a document with the given email exists. Query errors
// never reach the caller; the policy decides the answer.
func (c *DuplicateChecker) Exists(ctx context.Context, email string) bool {
	docs, err := c.store.QueryByField(ctx, c.collection, domain.FieldEmail, email)
	if err != nil {
		c.recorder.IncDuplicateQueryFailure(c.policy)
		c.logger.Warn("Duplicate email query failed",
			zap.Error(err),
			zap.String("email", maskEmail(email)),
			zap.String("policy", string(c.policy)),
		)
		return c.policy == DuplicatePolicyFailClosed
	}
	return len(docs) > 0
}
