package signup

import (
	"context"
	"errors"
	"time"

	"gamehub_backend/internal/config"
	"gamehub_backend/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Orchestrator runs the provisioning workflow: validate, check uniqueness,
// create the identity, set its display name, resolve the next destination, pick a
// profile and persist the profile document. Steps run strictly in that order.
//
// The identity and document writes are not atomic. When the display name or the
// document write fails, the identity is kept, the failure is handed to the
// Reconciler and the user still gets the success outcome.
type Orchestrator struct {
	validator       *Validator
	duplicates      *DuplicateChecker
	identity        IdentityProvider
	store           Datastore
	hints           SessionHintStore
	reconciler      Reconciler
	events          EventSink
	profiles        ProfilePicker
	recorder        Recorder
	collection      string
	attemptTimeout  time.Duration
	followUpTimeout time.Duration
	now             func() time.Time
	inflight        singleflight.Group
	logger          *zap.Logger
}

// NewOrchestrator creates the provisioning orchestrator.
func NewOrchestrator(
	cfg *config.Config,
	validator *Validator,
	duplicates *DuplicateChecker,
	identity IdentityProvider,
	store Datastore,
	hints SessionHintStore,
	reconciler Reconciler,
	events EventSink,
	profiles ProfilePicker,
	recorder Recorder,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		validator:       validator,
		duplicates:      duplicates,
		identity:        identity,
		store:           store,
		hints:           hints,
		reconciler:      reconciler,
		events:          events,
		profiles:        profiles,
		recorder:        recorder,
		collection:      cfg.FirestoreUsersCollection,
		attemptTimeout:  cfg.SignupTimeout,
		followUpTimeout: cfg.SignupFollowUpTimeout,
		now:             time.Now,
		logger:          logger.Named("SignupOrchestrator"),
	}
}

// attempt is the shared result of one in-flight provisioning run.
type attempt struct {
	fingerprint string
	outcome     Outcome
}

// Provision turns a signup request into an Outcome.
//
// Concurrent submissions from one session for the same email share a single
// in-flight run. A joining caller gets that run's outcome only if it submitted the
// same credentials; otherwise the email is reported as already in use. The run is
// detached from every caller, so a caller that gives up never fails the others.
func (o *Orchestrator) Provision(ctx context.Context, req SignupRequest) Outcome {
	if result := o.validator.Validate(req); !result.OK() {
		// Local failures stay local: metrics only, no audit event.
		outcome := fieldErrorFrom(result)
		o.recorder.ObserveOutcome(outcome.Kind, string(outcome.Code))
		return outcome
	}

	email := req.TrimmedEmail()
	fingerprint := req.fingerprint()
	ch := o.inflight.DoChan(req.SessionID+"\x00"+email, func() (interface{}, error) {
		runCtx, cancel := detach(ctx, o.attemptTimeout)
		defer cancel()
		return attempt{fingerprint: fingerprint, outcome: o.provision(runCtx, req)}, nil
	})

	select {
	case <-ctx.Done():
		o.logger.Warn("Signup caller stopped waiting for the in-flight attempt",
			zap.Error(ctx.Err()),
			zap.String("email", maskEmail(email)),
		)
		outcome := FatalError(MsgSignupTimedOut)
		o.recorder.ObserveOutcome(outcome.Kind, "caller_cancelled")
		return outcome
	case res := <-ch:
		shared := res.Val.(attempt)
		if shared.fingerprint != fingerprint {
			o.logger.Warn("Signup submission joined an in-flight attempt with different credentials",
				zap.String("email", maskEmail(email)),
			)
			outcome := FieldError(FieldEmail, CodeAlreadyInUse, MsgEmailInUse)
			o.recorder.ObserveOutcome(outcome.Kind, string(outcome.Code))
			return outcome
		}
		if res.Shared {
			o.logger.Info("Signup submission shared an in-flight attempt", zap.String("uid", shared.outcome.UID))
		}
		return shared.outcome
	}
}

// detach keeps ctx's values but drops its cancellation, bounded by d when positive.
func detach(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (o *Orchestrator) provision(ctx context.Context, req SignupRequest) Outcome {
	fullName := req.TrimmedFullName()
	email := req.TrimmedEmail()

	if o.duplicates.Exists(ctx, email) {
		outcome := FieldError(FieldEmail, CodeAlreadyInUse, MsgEmailInUse)
		o.finish(ctx, email, outcome, nil)
		return outcome
	}

	o.logger.Info("Creating identity", zap.String("email", maskEmail(email)))
	identity, err := o.identity.CreateAccount(ctx, email, req.Password)
	if err != nil {
		outcome := o.providerOutcome(err)
		o.logger.Warn("Identity creation failed",
			zap.Error(err),
			zap.String("email", maskEmail(email)),
			zap.String("outcome", string(outcome.Kind)),
		)
		o.finish(ctx, email, outcome, nil)
		return outcome
	}
	uid := identity.UID

	// The identity now exists; nothing after this point may be cut short by the
	// attempt deadline, or the account could be left without a repair entry.
	followCtx, cancel := detach(ctx, o.followUpTimeout)
	defer cancel()

	var degraded []domain.InconsistencyStep
	if err := o.identity.SetDisplayName(followCtx, uid, fullName); err != nil {
		o.logger.Error("Failed to set display name; identity kept", zap.Error(err), zap.String("uid", uid))
		degraded = append(degraded, domain.StepDisplayName)
		o.recordInconsistency(ctx, domain.Inconsistency{
			UID:         uid,
			Email:       email,
			Step:        domain.StepDisplayName,
			DisplayName: fullName,
			Reason:      err.Error(),
		})
	}

	outcome := o.resolveDestination(followCtx, req.SessionID)
	outcome.UID = uid

	doc := domain.NewProfileDocument(fullName, email, o.profiles.Pick(), o.now().UTC())
	if err := o.store.CreateDocument(followCtx, o.collection, uid, doc); err != nil {
		o.logger.Error("Failed to persist profile document; outcome unchanged", zap.Error(err), zap.String("uid", uid))
		degraded = append(degraded, domain.StepProfileDocument)
		o.recordInconsistency(ctx, domain.Inconsistency{
			UID:      uid,
			Email:    email,
			Step:     domain.StepProfileDocument,
			Document: &doc,
			Reason:   err.Error(),
		})
	} else {
		o.logger.Info("Profile document saved", zap.String("uid", uid), zap.String("profile", doc.Profile))
	}

	o.finish(ctx, email, outcome, degraded)
	return outcome
}

// resolveDestination picks the post-signup screen. A missing hint only affects
// navigation; the account has already been created.
func (o *Orchestrator) resolveDestination(ctx context.Context, sessionID string) Outcome {
	hint, ok, err := o.hints.Read(ctx, sessionID, domain.GamerIDHintKey)
	if err != nil {
		o.logger.Warn("Session hint read failed, treating as absent", zap.Error(err))
		ok = false
	}
	if ok && hint != "" {
		return Success(DestinationAvatarSelection, map[string]string{domain.GamerIDHintKey: hint})
	}
	outcome := Success(DestinationLogin, nil)
	outcome.Prompt = MsgLoginAgain
	return outcome
}

func (o *Orchestrator) providerOutcome(err error) Outcome {
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		return FatalError(err.Error())
	}
	switch perr.Kind {
	case domain.ProviderErrorWeakPassword:
		return FieldError(FieldPassword, CodeTooWeak, MsgPasswordTooWeak)
	case domain.ProviderErrorInvalidEmail:
		return FieldError(FieldEmail, CodeInvalid, MsgEmailInvalid)
	case domain.ProviderErrorEmailExists:
		return FieldError(FieldEmail, CodeAlreadyInUse, MsgEmailInUse)
	default:
		return FatalError(perr.Message)
	}
}

// recordInconsistency writes the ledger entry under its own deadline, so the
// failure it records cannot also prevent the write.
func (o *Orchestrator) recordInconsistency(ctx context.Context, inc domain.Inconsistency) {
	o.recorder.IncInconsistency(inc.Step)
	ledgerCtx, cancel := detach(ctx, o.followUpTimeout)
	defer cancel()
	if err := o.reconciler.RecordInconsistency(ledgerCtx, inc); err != nil {
		o.logger.Error("Failed to record inconsistency",
			zap.Error(err),
			zap.String("uid", inc.UID),
			zap.String("step", string(inc.Step)),
		)
	}
}

// finish reports metrics and the audit event. Neither can change the outcome.
func (o *Orchestrator) finish(ctx context.Context, email string, outcome Outcome, degraded []domain.InconsistencyStep) {
	reason := string(outcome.Code)
	if outcome.Kind == OutcomeSuccess {
		reason = string(outcome.Destination)
	}
	o.recorder.ObserveOutcome(outcome.Kind, reason)

	event := domain.SignupEvent{
		Email:       email,
		UID:         outcome.UID,
		Outcome:     string(outcome.Kind),
		Field:       string(outcome.Field),
		Code:        string(outcome.Code),
		Destination: string(outcome.Destination),
		OccurredAt:  o.now().UTC(),
	}
	for _, step := range degraded {
		event.Degraded = append(event.Degraded, string(step))
	}
	publishCtx, cancel := detach(ctx, o.followUpTimeout)
	defer cancel()
	if err := o.events.Publish(publishCtx, event); err != nil {
		o.logger.Warn("Failed to publish signup event", zap.Error(err), zap.String("uid", outcome.UID))
	}
}
