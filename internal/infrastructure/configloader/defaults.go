package configloader

import "time"

const (
	// defaultConfPath is the fallback configuration directory when no overrides are provided.
	defaultConfPath = "configs"
	// defaultServiceName is used when SERVICE_NAME is missing.
	defaultServiceName = "hello"
	// defaultServiceVersion is used when SERVICE_VERSION is missing.
	defaultServiceVersion = "dev"
	// defaultEnvironment is used when APP_ENV is missing.
	defaultEnvironment = "development"
	// defaultHTTPAddr is the listen address when the config omits server.http.addr.
	defaultHTTPAddr = "0.0.0.0:8000"
	// defaultSchema is the PostgreSQL schema owning greetings and outbox tables.
	defaultSchema = "hello"

	defaultCommandTimeout = 5 * time.Second
	defaultQueryTimeout   = 3 * time.Second

	defaultOutboxBatchSize      = 50
	defaultOutboxTickInterval   = time.Second
	defaultOutboxInitialBackoff = 2 * time.Second
	defaultOutboxMaxBackoff     = 2 * time.Minute
	defaultOutboxMaxAttempts    = 20
	defaultOutboxPublishTimeout = 10 * time.Second
	defaultOutboxWorkers        = 4
	defaultOutboxLockTTL        = 30 * time.Second
)

var defaultMetadataKeys = []string{
	"x-md-global-user-id",
	"x-md-idempotency-key",
}
