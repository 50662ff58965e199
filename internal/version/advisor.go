package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	goversion "github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"

	"github.com/cord-sdk/cord-cli/internal/clock"
	"github.com/cord-sdk/cord-cli/internal/credentials"
)

const (
	// DefaultURL serves the latest published CLI version
	DefaultURL = "https://api.cord.com/v1/cli-version"

	// CheckInterval is the minimum time between two version checks
	CheckInterval = 24 * time.Hour

	userAgent = "Cord CLI"
)

// Store persists the last-checked timestamp alongside the credentials
type Store interface {
	Read(ctx context.Context) (credentials.Record, error)
	Write(ctx context.Context, partial map[credentials.Key]string) error
}

// HTTPClient sends HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AdvisorConfig configures an Advisor
type AdvisorConfig struct {
	Store      Store
	HTTPClient HTTPClient

	// URL of the version feed (defaults to DefaultURL)
	URL string

	// Current is the running version (defaults to Version)
	Current string

	// Out receives the update notice, normally stderr
	Out io.Writer

	Logger logrus.FieldLogger

	// Clock is an optional clock for testing (defaults to system clock)
	Clock clock.Clock
}

// Advisor checks at most once per CheckInterval whether a newer CLI release exists
type Advisor struct {
	store   Store
	client  HTTPClient
	url     string
	current string
	out     io.Writer
	logger  logrus.FieldLogger
	clock   clock.Clock
}

// Result describes what a Check did
type Result struct {
	// Checked is true when the feed was fetched successfully
	Checked bool

	// Latest is the published version, when Checked
	Latest string

	// UpdateAvailable is true when Latest is newer than the running version
	UpdateAvailable bool
}

type versionResponse struct {
	Version string `json:"version"`
}

// NewAdvisor creates an advisor
func NewAdvisor(cfg AdvisorConfig) *Advisor {
	a := &Advisor{
		store:   cfg.Store,
		client:  cfg.HTTPClient,
		url:     cfg.URL,
		current: cfg.Current,
		out:     cfg.Out,
		logger:  cfg.Logger,
		clock:   cfg.Clock,
	}
	if a.client == nil {
		a.client = http.DefaultClient
	}
	if a.url == "" {
		a.url = DefaultURL
	}
	if a.current == "" {
		a.current = Version
	}
	if a.out == nil {
		a.out = io.Discard
	}
	if a.logger == nil {
		a.logger = logrus.StandardLogger()
	}
	if a.clock == nil {
		a.clock = clock.NewSystemClock()
	}
	return a
}

// Check fetches the latest version unless one was fetched within CheckInterval.
// Failures are logged as warnings and never returned.
func (a *Advisor) Check(ctx context.Context) Result {
	now := a.clock.Now()

	record, err := a.store.Read(ctx)
	if err != nil {
		a.logger.WithError(err).Debug("Could not read version check timestamp")
		record = credentials.Record{}
	}
	if last, ok := record.LastVersionCheck(); ok && last.Add(CheckInterval).After(now) {
		return Result{}
	}

	latest, err := a.fetch(ctx)
	if err != nil {
		a.logger.WithError(err).Warn("Unable to check for CLI updates. Continuing without version check.")
		return Result{}
	}

	if err := a.store.Write(ctx, map[credentials.Key]string{
		credentials.KeyVersionLastChecked: clock.FormatMillis(now),
	}); err != nil {
		a.logger.WithError(err).Warn("Could not record version check time")
	}

	result := Result{Checked: true, Latest: latest.Original()}
	if a.isNewer(latest) {
		result.UpdateAvailable = true
		fmt.Fprintln(a.out, RenderNotice(a.current, latest.Original()))
	}
	return result
}

func (a *Advisor) fetch(ctx context.Context) (*goversion.Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", a.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("version feed returned %s", resp.Status)
	}

	var body versionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode version feed: %w", err)
	}

	latest, err := goversion.NewVersion(body.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid published version %q: %w", body.Version, err)
	}
	return latest, nil
}

func (a *Advisor) isNewer(latest *goversion.Version) bool {
	if a.current == DevVersion {
		return false
	}
	current, err := goversion.NewVersion(a.current)
	if err != nil {
		a.logger.WithField("version", a.current).Debug("Running version is not comparable")
		return false
	}
	return latest.GreaterThan(current)
}
