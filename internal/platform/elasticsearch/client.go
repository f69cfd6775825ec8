package elasticsearch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gamehub_backend/internal/config"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// ESClientWrapper wraps the elasticsearch.Client so Wire can provide it as a
// distinct type.
type ESClientWrapper struct {
	*elasticsearch.Client
}

// ZapLogger adapts zap.Logger to elastictransport.Logger.
type ZapLogger struct {
	logger *zap.Logger
}

var _ elastictransport.Logger = (*ZapLogger)(nil)

// LogRoundTrip logs request metrics at debug level.
func (l *ZapLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, _ time.Time, dur time.Duration) error {
	var statusCode int
	if res != nil {
		statusCode = res.StatusCode
	}
	l.logger.Debug("Elasticsearch RoundTrip",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", statusCode),
		zap.Duration("duration", dur),
		zap.Error(err),
	)
	return nil
}

// RequestBodyEnabled is false; event bodies are not worth logging twice.
func (l *ZapLogger) RequestBodyEnabled() bool { return false }

// ResponseBodyEnabled is false.
func (l *ZapLogger) ResponseBodyEnabled() bool { return false }

// NewClient creates the Elasticsearch client wrapper. Audit indexing is
// optional, so an empty ELASTICSEARCH_URL yields a nil wrapper and no error.
func NewClient(cfg *config.Config, logger *zap.Logger) (*ESClientWrapper, error) {
	if cfg.ElasticsearchURL == "" {
		logger.Warn("ELASTICSEARCH_URL is not configured; signup audit events are disabled")
		return nil, nil
	}
	return newClient(elasticsearch.Config{Addresses: []string{cfg.ElasticsearchURL}}, logger)
}

func newClient(esCfg elasticsearch.Config, logger *zap.Logger) (*ESClientWrapper, error) {
	esCfg.Logger = &ZapLogger{logger: logger.Named("elasticsearch_client")}
	esCfg.RetryOnStatus = []int{502, 503, 504, 429}
	esCfg.RetryBackoff = func(i int) time.Duration { return time.Duration(i) * 100 * time.Millisecond }
	esCfg.MaxRetries = 3

	esClient, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}

	res, err := esClient.Info()
	if err != nil {
		return nil, fmt.Errorf("esClient.Info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Error("Elasticsearch client initialization error",
			zap.String("status", res.Status()),
			zap.Any("error_details", decodeErrorBody(res)),
		)
		return nil, fmt.Errorf("elasticsearch client initialization error: %s", res.Status())
	}

	logger.Info("Elasticsearch client initialized", zap.Strings("addresses", esCfg.Addresses), zap.String("es_version", elasticsearch.Version))
	return &ESClientWrapper{Client: esClient}, nil
}

// decodeErrorBody best-effort decodes an error response for logging.
func decodeErrorBody(res *esapi.Response) map[string]interface{} {
	var body map[string]interface{}
	if res == nil || res.Body == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return map[string]interface{}{"decode_error": err.Error()}
	}
	return body
}
