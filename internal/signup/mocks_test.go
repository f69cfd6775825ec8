package signup

import (
	"context"
	"sync"

	"gamehub_backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityProvider) SetDisplayName(ctx context.Context, uid, displayName string) error {
	args := m.Called(ctx, uid, displayName)
	return args.Error(0)
}

type MockDatastore struct {
	mock.Mock
}

func (m *MockDatastore) QueryByField(ctx context.Context, collection, field, value string) ([]map[string]interface{}, error) {
	args := m.Called(ctx, collection, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]interface{}), args.Error(1)
}

func (m *MockDatastore) CreateDocument(ctx context.Context, collection, key string, doc interface{}) error {
	args := m.Called(ctx, collection, key, doc)
	return args.Error(0)
}

type MockSessionHintStore struct {
	mock.Mock
}

func (m *MockSessionHintStore) Read(ctx context.Context, sessionID, key string) (string, bool, error) {
	args := m.Called(ctx, sessionID, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) RecordInconsistency(ctx context.Context, inc domain.Inconsistency) error {
	args := m.Called(ctx, inc)
	return args.Error(0)
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Publish(ctx context.Context, event domain.SignupEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fixedProfilePicker string

func (p fixedProfilePicker) Pick() string { return string(p) }

// fakeRecorder counts calls; metrics have their own tests.
type fakeRecorder struct {
	mu              sync.Mutex
	outcomes        []string
	queryFailures   int
	inconsistencies []domain.InconsistencyStep
}

func (r *fakeRecorder) ObserveOutcome(kind OutcomeKind, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, string(kind)+":"+reason)
}

func (r *fakeRecorder) IncDuplicateQueryFailure(DuplicatePolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryFailures++
}

func (r *fakeRecorder) IncInconsistency(step domain.InconsistencyStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inconsistencies = append(r.inconsistencies, step)
}

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) Provision(ctx context.Context, req SignupRequest) Outcome {
	args := m.Called(ctx, req)
	return args.Get(0).(Outcome)
}
