package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// SignupEventsIndexName holds one document per provisioning attempt.
const SignupEventsIndexName = "signup_events"

func signupEventsMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"email":       map[string]interface{}{"type": "keyword"},
				"uid":         map[string]interface{}{"type": "keyword"},
				"outcome":     map[string]interface{}{"type": "keyword"},
				"field":       map[string]interface{}{"type": "keyword"},
				"code":        map[string]interface{}{"type": "keyword"},
				"destination": map[string]interface{}{"type": "keyword"},
				"degraded":    map[string]interface{}{"type": "keyword"},
				"occurred_at": map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling signup events mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateSignupEventsIndexIfNotExists creates the signup events index with its
// mapping if it does not already exist. A nil client is a no-op.
func CreateSignupEventsIndexIfNotExists(ctx context.Context, client *ESClientWrapper, logger *zap.Logger) error {
	if client == nil {
		return nil
	}
	log := logger.Named("elasticsearch_index_setup").With(zap.String("index_name", SignupEventsIndexName))

	res, err := esapi.IndicesExistsRequest{Index: []string{SignupEventsIndexName}}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error checking if signup events index exists: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Info("Signup events index already exists")
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("error checking if signup events index exists: status %s", res.Status())
	}

	mappingJSON, err := signupEventsMapping()
	if err != nil {
		return err
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: SignupEventsIndexName,
		Body:  strings.NewReader(mappingJSON),
	}.Do(ctx, client.Client)
	if err != nil {
		return fmt.Errorf("error creating signup events index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		log.Error("Failed to create signup events index",
			zap.String("status", createRes.Status()),
			zap.Any("error_details", decodeErrorBody(createRes)),
		)
		return fmt.Errorf("failed to create signup events index: status %s", createRes.Status())
	}

	log.Info("Signup events index created")
	return nil
}
