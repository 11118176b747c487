// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/metrics"
	"github.com/mwiater/senticv/internal/providers"
	"github.com/mwiater/senticv/internal/providers/bayes"
	"github.com/mwiater/senticv/internal/providers/textprocessing"
	"github.com/mwiater/senticv/internal/providers/uclassify"
)

// NewBackend selects and configures the classifier backend named by the
// configuration, together with the session identifying the classifier on it.
// When m is non-nil the backend is wrapped with metrics collection.
func NewBackend(cfg *appconfig.Config, m *metrics.Metrics) (providers.Backend, providers.Session, error) {
	if cfg == nil {
		return nil, providers.Session{}, fmt.Errorf("nil config provided to provider factory")
	}

	c := cfg.Classifier
	session := providers.NewSession(c.Name, c.ReadKey, c.WriteKey)

	var backend providers.Backend
	switch c.BackendType() {
	case "uclassify":
		backend = uclassify.New(c, session)
	case "textprocessing":
		backend = textprocessing.New(c)
	case "bayes":
		backend = bayes.New()
	default:
		return nil, providers.Session{}, fmt.Errorf("unsupported classifier type %q", c.Type)
	}
	logging.LogEvent("Classifier backend ready: %s (session %s)", backend.Name(), session.Name)

	if m != nil {
		backend = metrics.NewBackend(backend, m)
	}
	return backend, session, nil
}
