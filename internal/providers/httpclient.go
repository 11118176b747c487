package providers

import (
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/logging"
)

// NewHTTPClient returns the client shared by the REST backends. Transport errors and
// 5xx responses are retried up to cfg.RetryAttempts() times.
func NewHTTPClient(cfg appconfig.Classifier) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryAttempts()
	rc.HTTPClient.Timeout = cfg.RequestTimeout()
	rc.Logger = retryLogger{}
	// Hand the last response back instead of a "giving up" error so callers can
	// report the status and body.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

// retryLogger routes retryablehttp's leveled logging into zerolog.
type retryLogger struct{}

func (retryLogger) Error(msg string, kv ...interface{}) { emit(zerolog.WarnLevel, msg, kv) }
func (retryLogger) Warn(msg string, kv ...interface{})  { emit(zerolog.WarnLevel, msg, kv) }
func (retryLogger) Info(msg string, kv ...interface{})  { emit(zerolog.DebugLevel, msg, kv) }
func (retryLogger) Debug(msg string, kv ...interface{}) { emit(zerolog.DebugLevel, msg, kv) }

func emit(level zerolog.Level, msg string, kv []interface{}) {
	logger := logging.L()
	ev := logger.WithLevel(level).Str("component", "http")
	if len(kv) > 0 {
		ev = ev.Fields(kv)
	}
	ev.Msg(msg)
}
