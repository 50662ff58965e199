// Package dispatch sends authenticated requests to the cord API surfaces.
//
// The application REST API and the management API are authorized by
// different credential pairs. Each surface has its own entry point that
// resolves only its own pair, so one can never be used in place of the other.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cord-sdk/cord-cli/internal/credentials"
	"github.com/cord-sdk/cord-cli/internal/token"
)

const (
	// DefaultBaseURL is used when the credential file does not set API_URL
	DefaultBaseURL = "https://api.cord.com/v1"

	// SourceHeader identifies the calling tool on application API calls
	SourceHeader = "X-Cord-Source"

	// DefaultSource is the SourceHeader value sent by the CLI
	DefaultSource = "cli"
)

// RecordReader reads the current credential record
type RecordReader interface {
	Read(ctx context.Context) (credentials.Record, error)
}

// HTTPClient sends HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Dispatcher
type Config struct {
	// Store supplies the credential record, read fresh for every call
	Store RecordReader

	// Signer mints the bearer tokens
	Signer token.Signer

	// HTTPClient sends requests (defaults to http.DefaultClient)
	HTTPClient HTTPClient

	// DefaultBaseURL is used when the record has no API_URL (defaults to DefaultBaseURL)
	DefaultBaseURL string

	// Source is the X-Cord-Source value (defaults to "cli")
	Source string

	// Observer receives request events (defaults to NoopObserver)
	Observer Observer
}

// Dispatcher builds, signs and sends API requests and classifies the responses
type Dispatcher struct {
	store    RecordReader
	signer   token.Signer
	client   HTTPClient
	baseURL  string
	source   string
	observer Observer
}

// New creates a dispatcher
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if cfg.Signer == nil {
		return nil, fmt.Errorf("signer is required")
	}

	d := &Dispatcher{
		store:    cfg.Store,
		signer:   cfg.Signer,
		client:   cfg.HTTPClient,
		baseURL:  cfg.DefaultBaseURL,
		source:   cfg.Source,
		observer: cfg.Observer,
	}
	if d.client == nil {
		d.client = http.DefaultClient
	}
	if d.baseURL == "" {
		d.baseURL = DefaultBaseURL
	}
	if d.source == "" {
		d.source = DefaultSource
	}
	if d.observer == nil {
		d.observer = NoopObserver{}
	}
	return d, nil
}

// Application calls the per-application REST API with the PROJECT_ID/PROJECT_SECRET pair.
// On success the JSON response is decoded into out, which may be nil.
// A non-2xx response yields an *APICallError.
func (d *Dispatcher) Application(ctx context.Context, endpoint, method string, body *Payload, out any) (err error) {
	method, err = normalizeMethod(method)
	if err != nil {
		return err
	}

	ctx, probe := d.observer.RequestStarted(ctx, credentials.SurfaceApplication, method, endpoint)
	defer func() {
		if err != nil {
			probe.RequestFailed(err)
		}
		probe.End()
	}()

	record, err := d.store.Read(ctx)
	if err != nil {
		return err
	}
	creds, err := record.ApplicationCredentials()
	if err != nil {
		return err
	}

	bearer, err := d.signer.ServerToken(creds.ProjectID, creds.ProjectSecret)
	if err != nil {
		return fmt.Errorf("failed to sign server token: %w", err)
	}

	url := joinURL(record.APIURL(d.baseURL), endpoint)
	probe.CredentialsResolved(creds.ProjectID, credentials.SecretPrefix(creds.ProjectSecret), url)

	header := http.Header{}
	header.Set(SourceHeader, d.source)

	return d.send(ctx, probe, method, url, bearer, body, header, out)
}

// Management calls the account/management API with the CUSTOMER_ID/CUSTOMER_SECRET pair.
// A non-empty body is sent as JSON.
func (d *Dispatcher) Management(ctx context.Context, endpoint, method, body string, out any) (err error) {
	method, err = normalizeMethod(method)
	if err != nil {
		return err
	}

	ctx, probe := d.observer.RequestStarted(ctx, credentials.SurfaceManagement, method, endpoint)
	defer func() {
		if err != nil {
			probe.RequestFailed(err)
		}
		probe.End()
	}()

	record, err := d.store.Read(ctx)
	if err != nil {
		return err
	}
	creds, err := record.ManagementCredentials()
	if err != nil {
		return err
	}

	bearer, err := d.signer.ManagementToken(creds.CustomerID, creds.CustomerSecret)
	if err != nil {
		return fmt.Errorf("failed to sign management token: %w", err)
	}

	url := joinURL(record.APIURL(d.baseURL), endpoint)
	probe.CredentialsResolved(creds.CustomerID, credentials.SecretPrefix(creds.CustomerSecret), url)

	var payload *Payload
	if body != "" {
		payload = JSONPayload(body)
	}

	return d.send(ctx, probe, method, url, bearer, payload, http.Header{}, out)
}

func (d *Dispatcher) send(ctx context.Context, probe Probe, method, url, bearer string, body *Payload, header http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		reader = body.reader()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil && body.ContentType() != "" {
		req.Header.Set("Content-Type", body.ContentType())
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	probe.ResponseReceived(resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPICallError(resp, data)
	}

	if out == nil || len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// CallApplicationAPI calls the application API and decodes the response as T
func CallApplicationAPI[T any](ctx context.Context, d *Dispatcher, endpoint, method string, body *Payload) (T, error) {
	var out T
	err := d.Application(ctx, endpoint, method, body, &out)
	return out, err
}

// CallManagementAPI calls the management API and decodes the response as T
func CallManagementAPI[T any](ctx context.Context, d *Dispatcher, endpoint, method, body string) (T, error) {
	var out T
	err := d.Management(ctx, endpoint, method, body, &out)
	return out, err
}

func normalizeMethod(method string) (string, error) {
	if method == "" {
		return http.MethodGet, nil
	}
	switch m := strings.ToUpper(method); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
}

func joinURL(base, endpoint string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
