package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Credentials supplies the bearer token for outbound requests and is told
// when the backend rejects it.
type Credentials interface {
	Token() string
	HardLogout()
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsUnauthorized reports whether err carries a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

type messageBody struct {
	Message string `json:"message"`
}

// API is the shared transport of every backend client.
type API struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger

	mu    sync.RWMutex
	creds Credentials
}

func NewAPI(baseURL string, timeout time.Duration, logger *logrus.Logger) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

// UseCredentials wires the token source and the hard-logout hook. It is
// called once the identity holder exists, which itself depends on the API.
func (a *API) UseCredentials(creds Credentials) {
	a.mu.Lock()
	a.creds = creds
	a.mu.Unlock()
}

func (a *API) credentials() Credentials {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.creds
}

type request struct {
	method   string
	path     string
	query    url.Values
	body     interface{}
	headers  map[string]string
	token    string // overrides the credentials token when set
	fallback string // message used when the backend gives none
}

func (a *API) do(ctx context.Context, r request, out interface{}) error {
	endpoint := a.baseURL + "/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			a.log.Errorf("API: Failed to marshal %s %s body: %v", r.method, r.path, err)
			return fmt.Errorf("failed to prepare request data: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		a.log.Errorf("API: Failed to create %s %s request: %v", r.method, r.path, err)
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	creds := a.credentials()
	token := r.token
	if token == "" && creds != nil {
		token = creds.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	a.log.Debugf("API: %s %s", r.method, endpoint)
	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Errorf("API: Failed to execute %s %s: %v", r.method, r.path, err)
		return fmt.Errorf("failed to communicate with backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		a.log.Warnf("API: %s %s rejected with 401, forcing logout", r.method, r.path)
		if creds != nil {
			creds.HardLogout()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := r.fallback
		var mb messageBody
		if json.Unmarshal(bodyBytes, &mb) == nil && strings.TrimSpace(mb.Message) != "" {
			msg = mb.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		a.log.Warnf("API: %s %s failed with status %d. Response body: %s", r.method, r.path, resp.StatusCode, string(bodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		a.log.Errorf("API: Failed to decode %s %s response: %v", r.method, r.path, err)
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
