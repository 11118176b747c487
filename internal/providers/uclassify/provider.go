// Package uclassify provides a Backend backed by the uClassify REST API. Each fold
// creates its own classifier on the account, trains it per class, classifies the
// held-out texts and removes it again.
package uclassify

import (
	"bytes"
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

// DefaultURL is the public uClassify API root.
const DefaultURL = "https://api.uclassify.com/v1"

const backendName = "uclassify"

var classifySchema = providers.MustSchema(`{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["classification"],
		"properties": {
			"textCoverage": {"type": "number"},
			"classification": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["className", "p"],
					"properties": {
						"className": {"type": "string"},
						"p": {"type": "number"}
					}
				}
			}
		}
	}
}`)

type classifyResponse []struct {
	TextCoverage   float64 `json:"textCoverage"`
	Classification []struct {
		ClassName string  `json:"className"`
		P         float64 `json:"p"`
	} `json:"classification"`
}

// Backend implements providers.Backend against a uClassify account.
type Backend struct {
	client  *http.Client
	baseURL string
	session providers.Session
	timeout time.Duration
}

// New constructs a Backend from the classifier configuration and session credentials.
func New(cfg appconfig.Classifier, session providers.Session) *Backend {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		base = DefaultURL
	}
	return &Backend{
		client:  providers.NewHTTPClient(cfg),
		baseURL: base,
		session: session,
		timeout: cfg.RequestTimeout(),
	}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backendName }

// Close releases idle connections.
func (b *Backend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// Open creates the classifier and its three classes.
func (b *Backend) Open(ctx context.Context, classifierName string) (providers.Instance, error) {
	if b.session.WriteKey == "" {
		return nil, fmt.Errorf("uclassify: write key is required to create %q", classifierName)
	}
	inst := &Instance{backend: b, name: classifierName}
	if _, err := b.call(ctx, http.MethodPost, "/me/", b.session.WriteKey, classifierName, "create",
		map[string]string{"classifierName": classifierName}); err != nil {
		return nil, err
	}
	for _, label := range providers.Labels {
		if _, err := b.call(ctx, http.MethodPost, inst.path("addClass"), b.session.WriteKey, classifierName, "addClass",
			map[string]string{"className": string(label)}); err != nil {
			// Best effort: do not leave a half-built classifier behind.
			_ = inst.Release(context.WithoutCancel(ctx))
			return nil, err
		}
	}
	return inst, nil
}

// Instance is one remote classifier.
type Instance struct {
	backend *Backend
	name    string
}

// Name returns the remote classifier name.
func (i *Instance) Name() string { return i.name }

func (i *Instance) path(parts ...string) string {
	escaped := []string{"me", url.PathEscape(i.name)}
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return "/" + strings.Join(escaped, "/")
}

// Train uploads the examples of one class. An empty slice is a no-op.
func (i *Instance) Train(ctx context.Context, label providers.Label, examples []string) error {
	if len(examples) == 0 {
		logging.LogDebug("uclassify: %s has no %s examples to train", i.name, label)
		return nil
	}
	_, err := i.backend.call(ctx, http.MethodPost, i.path(string(label), "train"), i.backend.session.WriteKey, i.name, "train",
		map[string][]string{"texts": examples})
	return err
}

// Classify scores texts against the trained classes.
func (i *Instance) Classify(ctx context.Context, texts []string) ([]providers.ClassOutput, error) {
	if len(texts) == 0 {
		return []providers.ClassOutput{}, nil
	}
	key := i.backend.session.ReadKey
	if key == "" {
		key = i.backend.session.WriteKey
	}
	body, err := i.backend.call(ctx, http.MethodPost, i.path("classify"), key, i.name, "classify",
		map[string][]string{"texts": texts})
	if err != nil {
		return nil, err
	}
	if err := providers.ValidateResponse(classifySchema, body); err != nil {
		return nil, err
	}
	var parsed classifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, providers.Malformed("decode classify response: %v", err)
	}
	if len(parsed) != len(texts) {
		return nil, providers.Malformed("expected %d classifications, got %d", len(texts), len(parsed))
	}

	out := make([]providers.ClassOutput, len(texts))
	for idx, item := range parsed {
		var scores providers.Scores
		seen := make(map[providers.Label]bool, len(providers.Labels))
		for _, c := range item.Classification {
			label, ok := providers.ParseLabel(c.ClassName)
			if !ok {
				return nil, providers.Malformed("unknown class %q", c.ClassName)
			}
			scores.Set(label, c.P)
			seen[label] = true
		}
		for _, label := range providers.Labels {
			if !seen[label] {
				return nil, providers.Malformed("text %d: missing class %q", idx, label)
			}
		}
		out[idx] = providers.NewClassOutput(texts[idx], scores)
	}
	return out, nil
}

// Release deletes the classifier. A classifier that no longer exists is not an error.
func (i *Instance) Release(ctx context.Context) error {
	_, err := i.backend.call(ctx, http.MethodDelete, i.path(), i.backend.session.WriteKey, i.name, "release", nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusNotFound
}

// call performs one authorized JSON request and returns the response body.
func (b *Backend) call(ctx context.Context, method, path, key, classifier, op string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		logging.LogRequest("SENTICV->CLASSIFIER", backendName, classifier, op, body)
		reader = bytes.NewReader(body)
	} else {
		logging.LogRequest("SENTICV->CLASSIFIER", backendName, classifier, op, map[string]string{"method": method, "path": path})
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+key)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("CLASSIFIER->SENTICV", backendName, classifier, op, respBody)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{
			status: resp.StatusCode,
			msg:    fmt.Sprintf("uclassify: %s %s returned %s: %s", method, path, resp.Status, strings.TrimSpace(string(respBody))),
		}
	}
	return respBody, nil
}
