package config

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	"github.com/cord-sdk/cord-cli/internal/credentials"
	"github.com/cord-sdk/cord-cli/internal/dispatch"
	"github.com/cord-sdk/cord-cli/internal/fs"
	"github.com/cord-sdk/cord-cli/internal/httpfixture"
	"github.com/cord-sdk/cord-cli/internal/probe"
	"github.com/cord-sdk/cord-cli/internal/server"
	"github.com/cord-sdk/cord-cli/internal/token"
	"github.com/cord-sdk/cord-cli/internal/version"
)

// Provider constructs all application components from configuration
// This is the main entry point for building a configured cord CLI
type Provider struct {
	config *Config

	// Overridable before first use
	FileSystem fs.FileSystem
	LogOutput  io.Writer
	NoticeOut  io.Writer

	// Lazily constructed components (cached after first call)
	logger     *logrus.Logger
	store      *credentials.Store
	signer     token.Signer
	httpClient *http.Client
	dispatcher *dispatch.Dispatcher
	advisor    *version.Advisor
}

// NewProvider creates a new provider from configuration
func NewProvider(config *Config) *Provider {
	return &Provider{
		config:     config,
		FileSystem: fs.NewOSFileSystem(),
		LogOutput:  os.Stderr,
		NoticeOut:  os.Stderr,
	}
}

// Config returns the configuration the provider was built from
func (p *Provider) Config() *Config {
	return p.config
}

// Logger returns the configured logger
func (p *Provider) Logger() *logrus.Logger {
	if p.logger != nil {
		return p.logger
	}

	logger := logrus.New()
	logger.SetOutput(p.LogOutput)
	if level, err := logrus.ParseLevel(p.config.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	if p.config.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	p.logger = logger
	return logger
}

// CredentialStore returns the credential store at the configured path
func (p *Provider) CredentialStore() (*credentials.Store, error) {
	if p.store != nil {
		return p.store, nil
	}

	path, err := credentials.ResolvePath(p.config.CredentialsPath)
	if err != nil {
		return nil, err
	}
	store, err := credentials.NewStore(credentials.StoreConfig{
		Path:       path,
		FileSystem: p.FileSystem,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}

	p.store = store
	return store, nil
}

// Signer returns the token signer
func (p *Provider) Signer() (token.Signer, error) {
	if p.signer != nil {
		return p.signer, nil
	}

	ttl, err := p.config.TokenTTL()
	if err != nil {
		return nil, err
	}

	p.signer = token.NewHMACSigner(token.HMACSignerConfig{TTL: ttl})
	return p.signer, nil
}

// HTTPClient returns the outbound HTTP client.
// With fixtures_file set, every request is answered from fixtures and
// requests without a matching fixture fail.
func (p *Provider) HTTPClient() (*http.Client, error) {
	if p.httpClient != nil {
		return p.httpClient, nil
	}

	client := cleanhttp.DefaultClient()

	if p.config.TLS.InsecureSkipVerify {
		p.Logger().Warn("TLS certificate verification is disabled")
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}

	if p.config.FixturesFile != "" {
		provider, err := httpfixture.Load(p.config.FixturesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		client.Transport = httpfixture.NewTransport(provider)
	}

	p.httpClient = client
	return client, nil
}

// Dispatcher returns the API request dispatcher
func (p *Provider) Dispatcher() (*dispatch.Dispatcher, error) {
	if p.dispatcher != nil {
		return p.dispatcher, nil
	}

	store, err := p.CredentialStore()
	if err != nil {
		return nil, err
	}
	signer, err := p.Signer()
	if err != nil {
		return nil, err
	}
	client, err := p.HTTPClient()
	if err != nil {
		return nil, err
	}

	d, err := dispatch.New(dispatch.Config{
		Store:          store,
		Signer:         signer,
		HTTPClient:     client,
		DefaultBaseURL: p.config.APIURL,
		Observer:       probe.NewLoggingDispatchObserver(p.Logger()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	p.dispatcher = d
	return d, nil
}

// VersionAdvisor returns the update checker
func (p *Provider) VersionAdvisor() (*version.Advisor, error) {
	if p.advisor != nil {
		return p.advisor, nil
	}

	store, err := p.CredentialStore()
	if err != nil {
		return nil, err
	}
	client, err := p.HTTPClient()
	if err != nil {
		return nil, err
	}

	p.advisor = version.NewAdvisor(version.AdvisorConfig{
		Store:      store,
		HTTPClient: client,
		URL:        p.config.VersionURL,
		Out:        p.NoticeOut,
		Logger:     p.Logger(),
	})
	return p.advisor, nil
}

// Server returns a token server bound to the configured address
func (p *Provider) Server() (*server.Server, error) {
	store, err := p.CredentialStore()
	if err != nil {
		return nil, err
	}
	signer, err := p.Signer()
	if err != nil {
		return nil, err
	}

	logger := p.Logger()
	return server.New(server.Config{
		Addr:         p.config.Server.Addr,
		TokenHandler: server.NewTokenHandler(store, signer, probe.NewLoggingIssuanceObserver(logger)),
		Logger:       logger,
	}), nil
}
