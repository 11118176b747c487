// Package textprocessing provides a Backend for a pre-trained sentiment API that
// accepts form-encoded text and answers with a label and per-class probabilities.
// The remote model is fixed, so training is a no-op and every fold shares it.
package textprocessing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/providers"
)

// DefaultURL is the public text-processing API root.
const DefaultURL = "http://text-processing.com"

const backendName = "textprocessing"

var sentimentSchema = providers.MustSchema(`{
	"type": "object",
	"required": ["label", "probability"],
	"properties": {
		"label": {"type": "string"},
		"probability": {
			"type": "object",
			"required": ["neg", "neutral", "pos"],
			"properties": {
				"neg": {"type": "number"},
				"neutral": {"type": "number"},
				"pos": {"type": "number"}
			}
		}
	}
}`)

type sentimentResponse struct {
	Label       string           `json:"label"`
	Probability providers.Scores `json:"probability"`
}

// Backend implements providers.Backend for the sentiment endpoint.
type Backend struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

// New constructs a Backend from the classifier configuration.
func New(cfg appconfig.Classifier) *Backend {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		base = DefaultURL
	}
	return &Backend{
		client:   providers.NewHTTPClient(cfg),
		endpoint: base + "/api/sentiment/",
		timeout:  cfg.RequestTimeout(),
	}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backendName }

// Close releases idle connections.
func (b *Backend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// Open returns a handle on the shared remote model.
func (b *Backend) Open(_ context.Context, classifierName string) (providers.Instance, error) {
	return &Instance{backend: b, name: classifierName}, nil
}

// Instance is a per-fold handle on the remote model.
type Instance struct {
	backend *Backend
	name    string
}

// Name returns the fold classifier name used in logs.
func (i *Instance) Name() string { return i.name }

// Train is a no-op; the remote model cannot be trained.
func (i *Instance) Train(ctx context.Context, label providers.Label, examples []string) error {
	logging.LogDebug("textprocessing: ignoring %d %s examples for %s", len(examples), label, i.name)
	return ctx.Err()
}

// Classify issues one request per text, in input order.
func (i *Instance) Classify(ctx context.Context, texts []string) ([]providers.ClassOutput, error) {
	out := make([]providers.ClassOutput, 0, len(texts))
	for idx, text := range texts {
		scores, err := i.backend.sentiment(ctx, i.name, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", idx, err)
		}
		out = append(out, providers.NewClassOutput(text, scores))
	}
	return out, nil
}

// Release is a no-op.
func (i *Instance) Release(context.Context) error { return nil }

func (b *Backend) sentiment(ctx context.Context, classifier, text string) (providers.Scores, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	form := url.Values{"text": {text}}.Encode()
	logging.LogRequest("SENTICV->CLASSIFIER", backendName, classifier, "classify", form)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, strings.NewReader(form))
	if err != nil {
		return providers.Scores{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		return providers.Scores{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.Scores{}, err
	}
	logging.LogRequest("CLASSIFIER->SENTICV", backendName, classifier, "classify", body)

	if resp.StatusCode != http.StatusOK {
		return providers.Scores{}, fmt.Errorf("textprocessing: %s returned %s: %s", b.endpoint, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := providers.ValidateResponse(sentimentSchema, body); err != nil {
		return providers.Scores{}, err
	}
	var parsed sentimentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return providers.Scores{}, providers.Malformed("decode sentiment response: %v", err)
	}
	if _, ok := providers.ParseLabel(parsed.Label); !ok {
		return providers.Scores{}, providers.Malformed("unknown label %q", parsed.Label)
	}
	return parsed.Probability, nil
}
