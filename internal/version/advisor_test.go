package version

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cord-sdk/cord-cli/internal/clock"
	"github.com/cord-sdk/cord-cli/internal/credentials"
	"github.com/cord-sdk/cord-cli/internal/fs"
	"github.com/cord-sdk/cord-cli/internal/httpfixture"
)

const credsPath = "/home/dev/.cord"

type harness struct {
	advisor   *Advisor
	clock     *clock.FixtureClock
	memFS     *fs.MemFileSystem
	store     *credentials.Store
	transport *httpfixture.Transport
	out       *bytes.Buffer
	logs      *test.Hook
}

func newHarness(t *testing.T, current string, fixture *httpfixture.Fixture) *harness {
	t.Helper()

	memFS := fs.NewMemFileSystem()
	store, err := credentials.NewStore(credentials.StoreConfig{Path: credsPath, FileSystem: memFS})
	require.NoError(t, err)

	transport := httpfixture.NewTransport(httpfixture.FuncProvider(func(req *http.Request) *httpfixture.Fixture {
		if req.URL.String() != DefaultURL || req.Header.Get("User-Agent") != "Cord CLI" {
			return nil
		}
		return fixture
	}))

	logger, hook := test.NewNullLogger()
	clk := clock.NewFixtureClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	out := &bytes.Buffer{}

	return &harness{
		advisor: NewAdvisor(AdvisorConfig{
			Store:      store,
			HTTPClient: &http.Client{Transport: transport},
			Current:    current,
			Out:        out,
			Logger:     logger,
			Clock:      clk,
		}),
		clock:     clk,
		memFS:     memFS,
		store:     store,
		transport: transport,
		out:       out,
		logs:      hook,
	}
}

func TestAdvisor_NewerVersion(t *testing.T) {
	h := newHarness(t, "1.2.0", &httpfixture.Fixture{Body: `{"version":"1.3.0"}`})

	result := h.advisor.Check(context.Background())

	assert.Equal(t, Result{Checked: true, Latest: "1.3.0", UpdateAvailable: true}, result)
	assert.Contains(t, h.out.String(), "There is a newer version available!")
	assert.Contains(t, h.out.String(), "1.2.0")
	assert.Contains(t, h.out.String(), "1.3.0")
	assert.Contains(t, h.out.String(), UpdateCommand)

	record, err := h.store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, clock.FormatMillis(h.clock.Now()), record[credentials.KeyVersionLastChecked])
}

func TestAdvisor_NoNoticeWhenCurrent(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
	}{
		{"same version", "1.3.0", "1.3.0"},
		{"running newer", "2.0.0", "1.3.0"},
		{"prerelease is older than release", "1.3.0", "1.3.0-beta.1"},
		{"dev build", DevVersion, "9.9.9"},
		{"unparseable build version", "custom", "1.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.current, &httpfixture.Fixture{Body: `{"version":"` + tt.latest + `"}`})

			result := h.advisor.Check(context.Background())

			assert.True(t, result.Checked)
			assert.False(t, result.UpdateAvailable)
			assert.Empty(t, h.out.String())
		})
	}
}

func TestAdvisor_Debounce(t *testing.T) {
	h := newHarness(t, "1.0.0", &httpfixture.Fixture{Body: `{"version":"1.0.0"}`})
	ctx := context.Background()

	assert.True(t, h.advisor.Check(ctx).Checked)

	h.clock.Advance(23*time.Hour + 59*time.Minute)
	assert.False(t, h.advisor.Check(ctx).Checked)
	assert.Len(t, h.transport.Requests(), 1, "second check within 24h must not fetch")

	h.clock.Advance(2 * time.Minute)
	assert.True(t, h.advisor.Check(ctx).Checked)
	assert.Len(t, h.transport.Requests(), 2)
}

func TestAdvisor_PreservesCredentials(t *testing.T) {
	h := newHarness(t, "1.0.0", &httpfixture.Fixture{Body: `{"version":"1.0.0"}`})
	ctx := context.Background()
	require.NoError(t, h.store.Write(ctx, map[credentials.Key]string{
		credentials.KeyProjectID:     "p1",
		credentials.KeyProjectSecret: "s1",
	}))

	h.advisor.Check(ctx)

	record, err := h.store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p1", record[credentials.KeyProjectID])
	assert.Equal(t, "s1", record[credentials.KeyProjectSecret])
	assert.NotEmpty(t, record[credentials.KeyVersionLastChecked])
}

func TestAdvisor_FailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name    string
		fixture *httpfixture.Fixture
	}{
		{"network failure", nil},
		{"server error", &httpfixture.Fixture{StatusCode: http.StatusBadGateway, Body: "bad gateway"}},
		{"not json", &httpfixture.Fixture{Body: "<html>"}},
		{"bad version", &httpfixture.Fixture{Body: `{"version":"latest"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "1.0.0", tt.fixture)

			result := h.advisor.Check(context.Background())

			assert.Equal(t, Result{}, result)
			assert.Empty(t, h.out.String())
			require.NotNil(t, h.logs.LastEntry())
			assert.Equal(t, logrus.WarnLevel, h.logs.LastEntry().Level)

			record, err := h.store.Read(context.Background())
			require.NoError(t, err)
			_, checked := record.LastVersionCheck()
			assert.False(t, checked, "failed checks must not update the timestamp")
		})
	}
}

func TestAdvisor_StoreFailuresAreSwallowed(t *testing.T) {
	t.Run("unreadable store still checks", func(t *testing.T) {
		h := newHarness(t, "1.0.0", &httpfixture.Fixture{Body: `{"version":"1.1.0"}`})
		h.memFS.FailReads(credsPath, syscall.EACCES)

		result := h.advisor.Check(context.Background())
		assert.True(t, result.Checked)
		assert.True(t, result.UpdateAvailable)
	})

	t.Run("unwritable store", func(t *testing.T) {
		h := newHarness(t, "1.0.0", &httpfixture.Fixture{Body: `{"version":"1.0.0"}`})
		h.memFS.FailWrites(credsPath, errors.New("read-only file system"))

		result := h.advisor.Check(context.Background())
		assert.True(t, result.Checked)
		assert.Equal(t, logrus.WarnLevel, h.logs.LastEntry().Level)
	})
}

func TestRenderNotice(t *testing.T) {
	notice := RenderNotice("1.0.0", "1.1.0")
	assert.Contains(t, notice, "To update from")
	assert.Contains(t, notice, "npm update -g @cord-sdk/cli")
	assert.Contains(t, notice, "╭")
}
