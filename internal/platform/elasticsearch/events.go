package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gamehub_backend/internal/domain"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// EventIndexer writes signup audit events to SignupEventsIndexName.
type EventIndexer struct {
	client *ESClientWrapper
	logger *zap.Logger
}

// NewEventIndexer creates an indexer. With a nil client Publish does nothing.
func NewEventIndexer(client *ESClientWrapper, logger *zap.Logger) *EventIndexer {
	return &EventIndexer{client: client, logger: logger.Named("SignupEventIndexer")}
}

// Publish indexes one event.
func (i *EventIndexer) Publish(ctx context.Context, event domain.SignupEvent) error {
	if i.client == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode signup event: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index: SignupEventsIndexName,
		Body:  bytes.NewReader(body),
	}.Do(ctx, i.client.Client)
	if err != nil {
		return fmt.Errorf("failed to index signup event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Warn("Signup event rejected by Elasticsearch",
			zap.String("status", res.Status()),
			zap.Any("error_details", decodeErrorBody(res)),
		)
		return fmt.Errorf("failed to index signup event: status %s", res.Status())
	}
	return nil
}
