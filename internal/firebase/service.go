package firebase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath" // For cleaning the path
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamehub_backend/internal/config"
	"gamehub_backend/internal/domain"
)

// FirebaseService is the identity provider (Firebase Authentication) and the
// document datastore (Cloud Firestore) used by account provisioning.
type FirebaseService struct {
	authClient      *auth.Client
	firestoreClient *firestore.Client
	logger          *zap.Logger
}

// NewFirebaseService initializes the Firebase Admin SDK and opens the Auth and
// Firestore clients. The cleanup func closes the Firestore client.
func NewFirebaseService(cfg *config.Config, logger *zap.Logger) (*FirebaseService, func(), error) {
	ctx := context.Background()
	logger = logger.Named("FirebaseService")

	var opts []option.ClientOption
	if cfg.FirebaseServiceAccountKeyPath != "" {
		cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
		opts = append(opts, option.WithCredentialsFile(cleanPath))
	} else {
		logger.Info("No service account key configured, using application default credentials")
	}

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err))
		return nil, nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	cleanup := func() {
		if err := firestoreClient.Close(); err != nil {
			logger.Warn("Failed to close Firestore client", zap.Error(err))
		}
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &FirebaseService{
		authClient:      authClient,
		firestoreClient: firestoreClient,
		logger:          logger,
	}, cleanup, nil
}

// CreateAccount creates an email/password identity.
// Failures are returned as *domain.ProviderError.
func (s *FirebaseService) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		return nil, MapAuthError(err)
	}
	s.logger.Debug("Firebase user created", zap.String("uid", record.UID))
	return &domain.Identity{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}, nil
}

// SetDisplayName updates the display name of an existing identity.
func (s *FirebaseService) SetDisplayName(ctx context.Context, uid, displayName string) error {
	params := (&auth.UserToUpdate{}).DisplayName(displayName)
	if _, err := s.authClient.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update display name for %s: %w", uid, err)
	}
	return nil
}

// QueryByField returns the data of every document in collection whose field
// equals value.
func (s *FirebaseService) QueryByField(ctx context.Context, collection, field, value string) ([]map[string]interface{}, error) {
	iter := s.firestoreClient.Collection(collection).Where(field, "==", value).Documents(ctx)
	defer iter.Stop()

	var docs []map[string]interface{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query %s.%s failed: %w", collection, field, err)
		}
		docs = append(docs, snap.Data())
	}
	return docs, nil
}

// CreateDocument writes doc at collection/key. It never overwrites; an existing
// key yields domain.ErrDocumentExists.
func (s *FirebaseService) CreateDocument(ctx context.Context, collection, key string, doc interface{}) error {
	_, err := s.firestoreClient.Collection(collection).Doc(key).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%s/%s: %w", collection, key, domain.ErrDocumentExists)
		}
		return fmt.Errorf("firestore create %s/%s failed: %w", collection, key, err)
	}
	return nil
}

// MapAuthError translates Firebase Auth errors into the closed provider error set.
// The Admin SDK rejects malformed emails and short passwords locally with plain
// errors, so those are recognised by message.
func MapAuthError(err error) *domain.ProviderError {
	msg := err.Error()
	kind := domain.ProviderErrorUnknown
	switch {
	case auth.IsEmailAlreadyExists(err):
		kind = domain.ProviderErrorEmailExists
	case strings.Contains(msg, "password must be"), strings.Contains(msg, "WEAK_PASSWORD"):
		kind = domain.ProviderErrorWeakPassword
	case strings.Contains(msg, "malformed email"), strings.Contains(msg, "email must be"), strings.Contains(msg, "INVALID_EMAIL"):
		kind = domain.ProviderErrorInvalidEmail
	}
	return &domain.ProviderError{Kind: kind, Message: msg, Err: err}
}
