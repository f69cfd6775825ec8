// File: internal/reconcile/service.go
package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gamehub_backend/internal/config"
	"gamehub_backend/internal/domain"

	"go.uber.org/zap"
)

// DisplayNameSetter re-applies a display name on an existing identity.
type DisplayNameSetter interface {
	SetDisplayName(ctx context.Context, uid, displayName string) error
}

// DocumentCreator re-creates a profile document.
type DocumentCreator interface {
	CreateDocument(ctx context.Context, collection, key string, doc interface{}) error
}

// Observer receives one call per processed entry.
type Observer interface {
	ObserveReconciliation(step domain.InconsistencyStep, result string)
}

// Summary reports what a repair pass did.
type Summary struct {
	Processed int
	Resolved  int
	Retrying  int
	Abandoned int
}

// Service records provisioning inconsistencies and repairs them later.
type Service struct {
	repo        Repository
	identity    DisplayNameSetter
	store       DocumentCreator
	observer    Observer
	collection  string
	maxAttempts int
	now         func() time.Time
	logger      *zap.Logger
}

// NewService creates a new reconciliation service.
func NewService(repo Repository, identity DisplayNameSetter, store DocumentCreator, observer Observer, cfg *config.Config, logger *zap.Logger) *Service {
	maxAttempts := cfg.ReconcileMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Service{
		repo:        repo,
		identity:    identity,
		store:       store,
		observer:    observer,
		collection:  cfg.FirestoreUsersCollection,
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      logger.Named("ReconcileService"),
	}
}

// RecordInconsistency stores inc as a pending ledger entry.
func (s *Service) RecordInconsistency(ctx context.Context, inc domain.Inconsistency) error {
	entry := &Entry{
		UID:         inc.UID,
		Email:       inc.Email,
		Step:        inc.Step,
		Status:      StatusPending,
		LastError:   inc.Reason,
		DisplayName: inc.DisplayName,
	}
	if inc.Document != nil {
		raw, err := json.Marshal(inc.Document)
		if err != nil {
			return fmt.Errorf("failed to encode profile document for %s: %w", inc.UID, err)
		}
		entry.DocumentJSON = string(raw)
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return err
	}
	s.logger.Info("Recorded provisioning inconsistency",
		zap.String("uid", inc.UID),
		zap.String("step", string(inc.Step)),
		zap.String("entry_id", entry.ID.String()),
	)
	return nil
}

// RunOnce processes up to batchSize pending entries. A failing entry never
// stops the pass; only ledger access errors are returned.
func (s *Service) RunOnce(ctx context.Context, batchSize int) (Summary, error) {
	var summary Summary
	entries, err := s.repo.FindPending(ctx, batchSize)
	if err != nil {
		return summary, err
	}

	for i := range entries {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		entry := &entries[i]
		result := s.repair(ctx, entry)
		if err := s.repo.Update(ctx, entry); err != nil {
			return summary, err
		}

		summary.Processed++
		switch entry.Status {
		case StatusResolved:
			summary.Resolved++
		case StatusAbandoned:
			summary.Abandoned++
		default:
			summary.Retrying++
		}
		s.observer.ObserveReconciliation(entry.Step, result)
	}
	return summary, nil
}

// repair attempts the failed step once and updates entry in place. It returns
// the metric result label.
func (s *Service) repair(ctx context.Context, entry *Entry) string {
	err := s.apply(ctx, entry)
	log := s.logger.With(zap.String("uid", entry.UID), zap.String("step", string(entry.Step)))
	if err == nil {
		now := s.now().UTC()
		entry.Status = StatusResolved
		entry.ResolvedAt = &now
		entry.LastError = ""
		log.Info("Reconciliation entry resolved")
		return string(StatusResolved)
	}

	entry.Attempts++
	entry.LastError = err.Error()
	if entry.Attempts >= s.maxAttempts {
		entry.Status = StatusAbandoned
		log.Error("Reconciliation entry abandoned", zap.Error(err), zap.Int("attempts", entry.Attempts))
		return string(StatusAbandoned)
	}
	log.Warn("Reconciliation attempt failed", zap.Error(err), zap.Int("attempts", entry.Attempts))
	return "retry"
}

func (s *Service) apply(ctx context.Context, entry *Entry) error {
	switch entry.Step {
	case domain.StepDisplayName:
		return s.identity.SetDisplayName(ctx, entry.UID, entry.DisplayName)
	case domain.StepProfileDocument:
		var doc domain.ProfileDocument
		if err := json.Unmarshal([]byte(entry.DocumentJSON), &doc); err != nil {
			return fmt.Errorf("stored profile document is unreadable: %w", err)
		}
		err := s.store.CreateDocument(ctx, s.collection, entry.UID, doc)
		if errors.Is(err, domain.ErrDocumentExists) {
			// Another writer got there first; the document is in place.
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown reconciliation step %q", entry.Step)
	}
}

// Pending reports how many entries still await repair.
func (s *Service) Pending(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, StatusPending)
}
